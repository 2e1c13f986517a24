package world

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/engine/vegetation"
)

// ErrInvalidOptions is returned when Options violates its invariants.
var ErrInvalidOptions = errors.New("invalid world options")

// Options controls when the manager recomputes LOD and how many workers
// build tiles.
type Options struct {
	// MoveThreshold is how far the viewer must move from the last rebuild
	// position before another rebuild is considered.
	MoveThreshold float64 `yaml:"move_threshold"`
	// MinInterval is the minimum wall-clock time between rebuilds. Movement
	// inside the interval is coalesced into the next rebuild.
	MinInterval time.Duration `yaml:"min_interval"`
	// Workers is the tile build concurrency. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultOptions returns the standard update policy.
func DefaultOptions() Options {
	return Options{
		MoveThreshold: 32,
		MinInterval:   200 * time.Millisecond,
		Workers:       0,
	}
}

// Validate checks the invariants.
func (o Options) Validate() error {
	var errs []error
	if o.MoveThreshold < 0 {
		errs = append(errs, fmt.Errorf("%w: move_threshold must not be negative, got %v", ErrInvalidOptions, o.MoveThreshold))
	}
	if o.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("%w: min_interval must not be negative, got %v", ErrInvalidOptions, o.MinInterval))
	}
	if o.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers))
	}
	return errors.Join(errs...)
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Vegetation is the vegetation set of a biome. Type order matters: the
// index of a type is part of its placement seed.
type Vegetation struct {
	Salt  int64             `yaml:"salt"`
	Types []vegetation.Type `yaml:"types"`
}
