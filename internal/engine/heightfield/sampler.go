package heightfield

import (
	"fmt"
	"math"

	"github.com/Faultbox/midgard-terrain/internal/engine/noise"
)

// Layer constants. Changing any of them changes every generated world.
const (
	warpFrequencyFactor = 0.7
	warpAmplitude       = 800.0
	warpOffsetX         = 50.0
	warpOffsetZ         = 150.0

	continentOctave2Freq = 2.5
	continentOctave2Off  = 37.0
	continentBias        = 0.1
	spawnLandFloor       = 0.3

	sharpnessFreqFactor = 1.3
	sharpnessOffset     = 300.0
	sharpnessMin        = 0.6
	sharpnessMax        = 2.0

	detailOffset = 71.0

	mountainOctave2Freq = 1.8
	mountainOffset      = 500.0
	mountainMaskFreq    = 0.2
	mountainMaskOffset  = 2000.0

	detailFadeBand = 0.5

	// continentalBound bounds |continental| after bias, spawn floor and
	// the sharpness exponent.
	continentalBound = 1.2
)

// Field is a height field bound to one Config and its noise state.
// It holds no mutable state and is safe for concurrent use.
type Field struct {
	cfg   Config
	noise noise.Source

	spawnR2      float64
	mult         float64
	waterThresh  float64
	mountainAmpl float64
}

// New validates cfg and creates the noise source for it.
func New(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src, err := noise.New(cfg.Noise, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("creating noise: %w", err)
	}
	return NewWithSource(cfg, src), nil
}

// NewWithSource binds cfg to an existing noise source. cfg is assumed valid.
func NewWithSource(cfg Config, src noise.Source) *Field {
	return &Field{
		cfg:          cfg,
		noise:        src,
		spawnR2:      cfg.SpawnRadius * cfg.SpawnRadius,
		mult:         cfg.ContinentalMultiplier(),
		waterThresh:  cfg.WaterThreshold(),
		mountainAmpl: cfg.MountainAmplitude(),
	}
}

// Config returns the field configuration.
func (f *Field) Config() Config { return f.cfg }

// Sample returns the normalized height at world position (x, z).
// The result is finite; there is no hard clamp.
func (f *Field) Sample(x, z float64) float64 {
	r2 := x*x + z*z
	if r2 < f.spawnR2 {
		return 0
	}
	dist := math.Sqrt(r2)

	continental := f.continental(x, z, dist)
	elevation := continental * f.mult

	h := elevation + f.detailContribution(elevation, f.detail(x, z))
	h += f.mountain(x, z, continental)

	if dist < f.cfg.SpawnTransitionRadius {
		t := (dist - f.cfg.SpawnRadius) / (f.cfg.SpawnTransitionRadius - f.cfg.SpawnRadius)
		h *= smootherstep(t)
	}

	return noise.Finite(h)
}

// continental evaluates the domain-warped continent layer with shoreline
// sharpness applied.
func (f *Field) continental(x, z, dist float64) float64 {
	cs := f.cfg.ContinentScale
	wf := cs * warpFrequencyFactor

	wx := f.noise.Eval2(x*wf+warpOffsetX, z*wf+warpOffsetX) * warpAmplitude
	wz := f.noise.Eval2(x*wf+warpOffsetZ, z*wf+warpOffsetZ) * warpAmplitude

	cx := (x + wx) * cs
	cz := (z + wz) * cs
	v := 0.7*f.noise.Eval2(cx, cz) +
		0.3*f.noise.Eval2(cx*continentOctave2Freq+continentOctave2Off, cz*continentOctave2Freq+continentOctave2Off)
	v += continentBias

	if dist < f.cfg.SpawnTransitionRadius && v < spawnLandFloor {
		v = spawnLandFloor
	}

	sf := cs * sharpnessFreqFactor
	s := f.noise.Eval2(x*sf+sharpnessOffset, z*sf+sharpnessOffset)
	sharpness := sharpnessMin + (s*0.5+0.5)*(sharpnessMax-sharpnessMin)

	return math.Copysign(math.Pow(math.Abs(v), 1/sharpness), v)
}

// detail is the three-octave base detail layer.
func (f *Field) detail(x, z float64) float64 {
	ns := f.cfg.NoiseScale
	return 0.6*f.noise.Eval2(x*ns, z*ns) +
		0.3*f.noise.Eval2(x*ns*2.2+detailOffset, z*ns*2.2+detailOffset) +
		0.1*f.noise.Eval2(x*ns*4.5-detailOffset, z*ns*4.5-detailOffset)
}

// detailContribution fades detail in above the water threshold. Inside the
// fade band only positive detail is added so it can never carve new lakes.
func (f *Field) detailContribution(elevation, detail float64) float64 {
	full := f.waterThresh + detailFadeBand
	switch {
	case elevation >= full:
		return detail
	case elevation > f.waterThresh:
		w := (elevation - f.waterThresh) / detailFadeBand
		return math.Max(detail, 0) * w
	default:
		return 0
	}
}

// mountain is the ridged mountain layer masked by inland-ness and a broad
// low-frequency mask.
func (f *Field) mountain(x, z, continental float64) float64 {
	if f.mountainAmpl == 0 {
		return 0
	}
	ms := f.cfg.MountainScale

	r1 := 1 - math.Abs(f.noise.Eval2(x*ms+mountainOffset, z*ms+mountainOffset))
	r2 := 1 - math.Abs(f.noise.Eval2(x*ms*mountainOctave2Freq-mountainOffset, z*ms*mountainOctave2Freq-mountainOffset))
	ridge := 0.6*r1 + 0.4*r2

	inland := smoothstep(0.2, 0.6, continental)
	if inland == 0 {
		return 0
	}
	mf := ms * mountainMaskFreq
	mask := smoothstep(-0.1, 0.5, f.noise.Eval2(x*mf+mountainMaskOffset, z*mf+mountainMaskOffset))

	return ridge * inland * mask * f.mountainAmpl
}

// HeightRange returns a conservative normalized bound on Sample.
func (f *Field) HeightRange() (lo, hi float64) {
	c := continentalBound * f.mult
	return -c - 1, c + 1 + f.mountainAmpl
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// smootherstep is the quintic 6t^5 - 15t^4 + 10t^3 with t clamped to [0, 1].
func smootherstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * t * (t*(6*t-15) + 10)
}
