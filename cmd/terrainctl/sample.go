package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/heightfield"
)

func cmdSample(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	grid := fs.Int("grid", 1, "Sample an n x n grid starting at the point")
	step := fs.Float64("step", 64, "Grid spacing in world units")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return errors.New("usage: terrainctl sample [-grid n -step s] <x> <z>")
	}
	x, err := parseCoord("x", fs.Arg(0))
	if err != nil {
		return err
	}
	z, err := parseCoord("z", fs.Arg(1))
	if err != nil {
		return err
	}

	field, err := heightfield.New(cfg.Terrain)
	if err != nil {
		return err
	}

	if *grid <= 1 {
		n := field.Normal(x, z)
		fmt.Printf("Point:      (%g, %g)\n", x, z)
		fmt.Printf("Normalized: %.6f\n", field.Sample(x, z))
		fmt.Printf("Height:     %.3f\n", field.Height(x, z))
		fmt.Printf("Normal:     (%.4f, %.4f, %.4f)\n", n[0], n[1], n[2])
		fmt.Printf("Water:      %v (depth %.3f)\n", field.IsWater(x, z), field.WaterDepth(x, z))
		lo, hi := field.HeightRange()
		fmt.Printf("Range:      [%.3f, %.3f] normalized\n", lo, hi)
		return nil
	}

	s := *step
	fmt.Printf("%10s", "z \\ x")
	for i := 0; i < *grid; i++ {
		fmt.Printf(" %9.0f", x+float64(i)*s)
	}
	fmt.Println()
	for j := 0; j < *grid; j++ {
		wz := z + float64(j)*s
		fmt.Printf("%10.0f", wz)
		for i := 0; i < *grid; i++ {
			wx := x + float64(i)*s
			marker := " "
			if field.IsWater(wx, wz) {
				marker = "~"
			}
			fmt.Printf(" %8.2f%s", field.Height(wx, wz), marker)
		}
		fmt.Println()
	}
	return nil
}
