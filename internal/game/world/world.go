// Package world keeps the terrain around a moving viewer up to date: it
// drives the LOD forest, builds and caches tile meshes and vegetation, and
// answers height queries for gameplay.
package world

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/heightfield"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/vegetation"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Tile is one rendered leaf: its meshes and its vegetation instances, one
// list per vegetation type.
type Tile struct {
	Mesh       *terrain.Tile
	Vegetation [][]vegetation.Transform
	Generation uint64 // rebuild that produced the mesh
}

// Key returns the node identity of the tile.
func (t *Tile) Key() quadtree.Key { return t.Mesh.Key }

// Stats describes one rebuild.
type Stats struct {
	Generation uint64
	Leaves     int
	Built      int // tiles whose mesh was (re)built
	Reused     int // tiles kept from the previous generation
	Disposed   int // tiles that left the render set
	Quadtree   quadtree.UpdateStats
	Duration   time.Duration
}

// Manager owns the terrain state of one biome. Its methods must be called
// from a single goroutine; tile builds fan out to a worker pool internally.
type Manager struct {
	params quadtree.Params
	opts   Options
	veg    Vegetation

	field   *heightfield.Field
	builder *terrain.Builder
	placer  *vegetation.Placer
	forest  *quadtree.Forest
	pool    pond.Pool

	snapshot   *quadtree.Snapshot
	tiles      map[quadtree.Key]*Tile
	generation uint64

	updated    bool
	lastX      float64
	lastZ      float64
	lastUpdate time.Time
	lastStats  Stats
}

// NewManager validates all inputs and creates a manager with no tiles.
// Nothing is built until the first Update.
func NewManager(cfg heightfield.Config, params quadtree.Params, veg Vegetation, opts Options) (*Manager, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	forest, err := quadtree.NewForest(params)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		params: params,
		opts:   opts,
		veg:    veg,
		forest: forest,
		tiles:  make(map[quadtree.Key]*Tile),
		pool:   pond.NewPool(opts.workers()),
	}
	if err := m.setField(cfg); err != nil {
		m.pool.StopAndWait()
		return nil, err
	}
	return m, nil
}

// Close stops the worker pool.
func (m *Manager) Close() {
	m.pool.StopAndWait()
}

func (m *Manager) setField(cfg heightfield.Config) error {
	field, err := heightfield.New(cfg)
	if err != nil {
		return fmt.Errorf("creating height field: %w", err)
	}

	var placer *vegetation.Placer
	if len(m.veg.Types) > 0 {
		placer, err = vegetation.NewPlacer(field, m.params.MinTileSize, m.veg.Salt, m.veg.Types)
		if err != nil {
			return fmt.Errorf("creating vegetation placer: %w", err)
		}
	}

	m.field = field
	m.builder = terrain.FromField(field)
	m.placer = placer
	return nil
}

// SetHeightField replaces the terrain config, as on a biome change. Every
// cached tile is dropped and, if the viewer is known, rebuilt at once.
func (m *Manager) SetHeightField(cfg heightfield.Config) error {
	if err := m.setField(cfg); err != nil {
		return err
	}
	disposed := len(m.tiles)
	m.tiles = make(map[quadtree.Key]*Tile)
	logger.Named("world").Info("height field replaced",
		zap.Int64("seed", cfg.Seed),
		zap.Int("disposed", disposed))

	if m.updated {
		m.rebuild(m.lastX, m.lastZ, time.Now())
	}
	return nil
}

// Update reports the viewer position. A rebuild runs on the first call,
// and afterwards only once the viewer is MoveThreshold away from the last
// rebuild position and MinInterval has passed since it. It returns whether
// a rebuild ran.
func (m *Manager) Update(x, z float64, now time.Time) bool {
	if m.updated {
		if math.Hypot(x-m.lastX, z-m.lastZ) < m.opts.MoveThreshold {
			return false
		}
		if now.Sub(m.lastUpdate) < m.opts.MinInterval {
			return false
		}
	}
	m.rebuild(x, z, now)
	return true
}

// Rebuild forces a rebuild at (x, z), ignoring throttling.
func (m *Manager) Rebuild(x, z float64, now time.Time) Stats {
	m.rebuild(x, z, now)
	return m.lastStats
}

type buildJob struct {
	node   quadtree.Node
	stitch quadtree.Stitch
	veg    [][]vegetation.Transform // reused from the previous tile, if any
	out    *Tile
}

func (m *Manager) rebuild(x, z float64, now time.Time) {
	start := time.Now()
	m.generation++
	gen := m.generation

	qstats := m.forest.Update(x, z)
	snap := m.forest.Snapshot()
	leaves := snap.Leaves()

	next := make(map[quadtree.Key]*Tile, len(leaves))
	var jobs []*buildJob
	for _, leaf := range leaves {
		stitch := snap.Stitch(leaf)
		prev, ok := m.tiles[leaf.Key]
		if ok && prev.Mesh.Node == leaf && prev.Mesh.Stitch == stitch && prev.Mesh.Resolution == m.params.TileResolution {
			next[leaf.Key] = prev
			continue
		}
		job := &buildJob{node: leaf, stitch: stitch}
		if ok && prev.Mesh.Node == leaf {
			job.veg = prev.Vegetation
		}
		jobs = append(jobs, job)
	}

	m.build(jobs, gen)
	for _, job := range jobs {
		next[job.node.Key] = job.out
	}

	disposed := 0
	for k := range m.tiles {
		if _, ok := next[k]; !ok {
			disposed++
		}
	}

	m.tiles = next
	m.snapshot = snap
	m.updated = true
	m.lastX, m.lastZ = x, z
	m.lastUpdate = now
	m.lastStats = Stats{
		Generation: gen,
		Leaves:     len(leaves),
		Built:      len(jobs),
		Reused:     len(leaves) - len(jobs),
		Disposed:   disposed,
		Quadtree:   qstats,
		Duration:   time.Since(start),
	}

	log := logger.Named("world")
	log.Debug("terrain rebuilt",
		zap.Uint64("generation", gen),
		zap.Float64("x", x),
		zap.Float64("z", z),
		zap.Int("leaves", len(leaves)),
		zap.Int("built", len(jobs)),
		zap.Int("disposed", disposed),
		zap.Int("splits", qstats.Splits),
		zap.Int("merges", qstats.Merges),
		zap.Duration("took", m.lastStats.Duration))
	if qstats.Evicted > 0 {
		log.Debug("roots evicted", zap.Int("count", qstats.Evicted), zap.Int("created", qstats.Created))
	}
}

// build runs the jobs on the pool and waits for all of them.
func (m *Manager) build(jobs []*buildJob, gen uint64) {
	builder, placer := m.builder, m.placer
	resolution := m.params.TileResolution

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		m.pool.Submit(func() {
			defer wg.Done()
			t := &Tile{
				Mesh:       builder.Build(job.node, job.stitch, resolution),
				Vegetation: job.veg,
				Generation: gen,
			}
			if t.Vegetation == nil && placer != nil {
				t.Vegetation = placeAll(placer, job.node)
			}
			job.out = t
		})
	}
	wg.Wait()
}

func placeAll(p *vegetation.Placer, node quadtree.Node) [][]vegetation.Transform {
	out := make([][]vegetation.Transform, len(p.Types()))
	for i := range out {
		out[i] = p.PlaceTile(node, i)
	}
	return out
}

// Generation returns the number of rebuilds so far.
func (m *Manager) Generation() uint64 { return m.generation }

// LastStats returns the statistics of the most recent rebuild.
func (m *Manager) LastStats() Stats { return m.lastStats }

// Snapshot returns the node map of the most recent rebuild, or nil before
// the first one.
func (m *Manager) Snapshot() *quadtree.Snapshot { return m.snapshot }

// Tiles returns the current tiles in leaf order.
func (m *Manager) Tiles() []*Tile {
	if m.snapshot == nil {
		return nil
	}
	leaves := m.snapshot.Leaves()
	out := make([]*Tile, 0, len(leaves))
	for _, l := range leaves {
		if t, ok := m.tiles[l.Key]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Tile returns the tile with the given key.
func (m *Manager) Tile(k quadtree.Key) (*Tile, bool) {
	t, ok := m.tiles[k]
	return t, ok
}

// TileAt returns the tile rendering (x, z).
func (m *Manager) TileAt(x, z float64) (*Tile, bool) {
	if m.snapshot == nil {
		return nil, false
	}
	leaf, ok := m.snapshot.LeafAt(x, z)
	if !ok {
		return nil, false
	}
	return m.Tile(leaf.Key)
}

// VegetationTypes returns the vegetation types in index order.
func (m *Manager) VegetationTypes() []vegetation.Type {
	if m.placer == nil {
		return nil
	}
	return m.placer.Types()
}

// Field returns the active height field.
func (m *Manager) Field() *heightfield.Field { return m.field }

// Height returns the world-space terrain height at (x, z).
func (m *Manager) Height(x, z float64) float64 { return m.field.Height(x, z) }

// Normal returns the terrain normal at (x, z).
func (m *Manager) Normal(x, z float64) mgl32.Vec3 { return m.field.Normal(x, z) }

// IsWater reports whether (x, z) is under water.
func (m *Manager) IsWater(x, z float64) bool { return m.field.IsWater(x, z) }

// WaterDepth returns the water depth at (x, z), 0 on land.
func (m *Manager) WaterDepth(x, z float64) float64 { return m.field.WaterDepth(x, z) }

// SurfaceHeight returns the height of the rendered mesh at (x, z), which
// differs from Height between vertices of coarse tiles. Outside the
// rendered area it falls back to Height.
func (m *Manager) SurfaceHeight(x, z float64) float64 {
	if t, ok := m.TileAt(x, z); ok && t.Mesh.Heights != nil {
		return float64(t.Mesh.Heights.HeightAt(x, z))
	}
	return m.Height(x, z)
}
