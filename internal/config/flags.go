package config

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/Faultbox/midgard-terrain/internal/engine/noise"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = flag.String("seed", "", "Terrain seed (overrides config)")
	flagNoise   = flag.String("noise", "", "Noise backend: simplex or perlin")
	flagWorkers = flag.Int("workers", 0, "Tile build workers (0 keeps config)")
	flagLogFile = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != "" {
		seed, err := strconv.ParseInt(*flagSeed, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing -seed: %w", err)
		}
		cfg.Terrain.Seed = seed
	}
	if *flagNoise != "" {
		cfg.Terrain.Noise = noise.Backend(*flagNoise)
	}
	if *flagWorkers > 0 {
		cfg.Update.Workers = *flagWorkers
	}
	if *flagLogFile != "" {
		cfg.Logging.File.Path = *flagLogFile
		if cfg.Logging.File.MaxSizeMB == 0 {
			cfg.Logging.File = logger.DefaultFileConfig(*flagLogFile)
		}
	}
	return nil
}
