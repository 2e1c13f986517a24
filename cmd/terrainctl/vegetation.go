package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/heightfield"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/vegetation"
)

func cmdVegetation(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("vegetation", flag.ExitOnError)
	x := fs.Float64("x", 0, "Any X inside the tile")
	z := fs.Float64("z", 0, "Any Z inside the tile")
	size := fs.Float64("size", 0, "Tile size (default 4 x min tile size)")
	list := fs.Bool("list", false, "Print every instance")
	matrix := fs.Bool("matrix", false, "Print model matrices with -list")
	fs.Parse(args)

	params := cfg.LOD
	if *size <= 0 {
		*size = params.MinTileSize * 4
	}

	field, err := heightfield.New(cfg.Terrain)
	if err != nil {
		return err
	}
	placer, err := vegetation.NewPlacer(field, params.MinTileSize, cfg.Vegetation.Salt, cfg.Vegetation.Types)
	if err != nil {
		return err
	}

	node := quadtree.Node{
		Key:     params.KeyAt(*x, *z, *size),
		CenterX: (math.Floor(*x / *size) + 0.5) * *size,
		CenterZ: (math.Floor(*z / *size) + 0.5) * *size,
		Size:    *size,
		LOD:     params.LODForSize(*size),
		Leaf:    true,
	}
	minX, minZ, maxX, maxZ := node.Bounds()
	fmt.Printf("Tile %s: [%g, %g) x [%g, %g)\n", node.Key, minX, maxX, minZ, maxZ)

	for i, t := range placer.Types() {
		instances := placer.PlaceTile(node, i)
		fmt.Printf("%-12s %-10s %5d instances\n", t.Name, t.Asset.Kind(), len(instances))
		if !*list {
			continue
		}
		for _, tr := range instances {
			fmt.Printf("    pos (%.2f, %.2f, %.2f) yaw %.3f scale (%.2f, %.2f, %.2f)\n",
				tr.Position[0], tr.Position[1], tr.Position[2], tr.Yaw,
				tr.Scale[0], tr.Scale[1], tr.Scale[2])
			if *matrix {
				fmt.Print(tr.Matrix().String())
			}
		}
	}
	return nil
}
