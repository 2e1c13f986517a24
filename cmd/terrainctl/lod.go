package main

import (
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/game/world"
)

func cmdLOD(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("lod", flag.ExitOnError)
	x := fs.Float64("x", 0, "Viewer X")
	z := fs.Float64("z", 0, "Viewer Z")
	walk := fs.Int("walk", 0, "Number of additional viewer steps")
	dx := fs.Float64("dx", 32, "Viewer X movement per step")
	dz := fs.Float64("dz", 0, "Viewer Z movement per step")
	dt := fs.Duration("dt", 100*time.Millisecond, "Simulated time per step")
	fs.Parse(args)

	m, err := world.NewManager(cfg.Terrain, cfg.LOD, cfg.Vegetation, cfg.Update)
	if err != nil {
		return err
	}
	defer m.Close()

	now := time.Now()
	m.Update(*x, *z, now)
	printStats(m.LastStats())

	vx, vz := *x, *z
	for i := 1; i <= *walk; i++ {
		vx += *dx
		vz += *dz
		now = now.Add(*dt)
		if m.Update(vx, vz, now) {
			fmt.Printf("step %d at (%.0f, %.0f): ", i, vx, vz)
			printStats(m.LastStats())
		}
	}

	printTiles(m)
	return nil
}

func printStats(s world.Stats) {
	fmt.Printf("generation %d: %d leaves, %d built, %d reused, %d disposed, %d splits, %d merges, roots +%d -%d in %v\n",
		s.Generation, s.Leaves, s.Built, s.Reused, s.Disposed,
		s.Quadtree.Splits, s.Quadtree.Merges, s.Quadtree.Created, s.Quadtree.Evicted,
		s.Duration.Round(time.Microsecond))
}

func printTiles(m *world.Manager) {
	snap := m.Snapshot()
	counts := snap.LeafCountByLOD()
	lods := make([]int, 0, len(counts))
	for lod := range counts {
		lods = append(lods, lod)
	}
	sort.Ints(lods)

	fmt.Println()
	fmt.Println("Leaves by LOD:")
	for _, lod := range lods {
		fmt.Printf("  LOD %-3d %5d tiles of %g\n", lod, counts[lod], snap.Params().MinTileSize*float64(int(1)<<lod))
	}

	var stitched, water, vertices, indices int
	types := m.VegetationTypes()
	instances := make([]int, len(types))
	for _, t := range m.Tiles() {
		if t.Mesh.Stitch.Any() {
			stitched++
		}
		if t.Mesh.HasWater() {
			water++
		}
		vertices += len(t.Mesh.Terrain.Vertices)
		indices += len(t.Mesh.Terrain.Indices)
		for i, list := range t.Vegetation {
			instances[i] += len(list)
		}
	}

	fmt.Println()
	fmt.Printf("Stitched tiles: %d\n", stitched)
	fmt.Printf("Water tiles:    %d\n", water)
	fmt.Printf("Vertices:       %d\n", vertices)
	fmt.Printf("Triangles:      %d\n", indices/3)
	if len(types) > 0 {
		fmt.Println("Vegetation:")
		for i, t := range types {
			fmt.Printf("  %-12s %d\n", t.Name, instances[i])
		}
	}
}
