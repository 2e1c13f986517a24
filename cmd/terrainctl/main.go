// terrainctl is a CLI utility for inspecting procedural terrain: sampling
// heights, running LOD updates, placing vegetation and rendering previews.
package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Logging.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debug("terrainctl starting",
		zap.String("command", command),
		zap.Int64("seed", cfg.Terrain.Seed),
		zap.String("noise", string(cfg.Terrain.Noise)))

	rest := args[1:]
	switch command {
	case "sample", "s":
		err = cmdSample(cfg, rest)
	case "lod":
		err = cmdLOD(cfg, rest)
	case "vegetation", "veg":
		err = cmdVegetation(cfg, rest)
	case "preview":
		err = cmdPreview(cfg, rest)
	case "config":
		err = cmdConfig(cfg, rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainctl - procedural terrain utility

Usage:
  terrainctl [global flags] <command> [options]

Global flags:
  -config <file>   Config file (default: ./terrain.yaml or user config dir)
  -seed <n>        Override terrain seed
  -noise <name>    Noise backend: simplex or perlin
  -workers <n>     Tile build workers
  -debug           Debug logging
  -log-file <file> Also log to a rotated file

Commands:
  sample [-grid n -step s] <x> <z>   Height, normal and water at a point
  lod [-x -z -walk n -dx -dz -dt]    Run LOD updates and print tile stats
  vegetation [-x -z -size -list]     Place vegetation in one tile
  preview [-x -z -size -px] <out>    Render a height map (.png or .bmp)
  config show|save [path]            Print or save the effective config

Examples:
  terrainctl sample 10000 10000
  terrainctl -seed 42 lod -x 3000 -z 0 -walk 20 -dx 50
  terrainctl vegetation -x 5000 -z 5000 -list
  terrainctl preview -size 16384 -px 1024 world.png`)
}

func parseCoord(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return v, nil
}
