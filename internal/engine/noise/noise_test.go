package noise

import (
	"errors"
	"math"
	"testing"
)

func TestNewBackends(t *testing.T) {
	tests := []struct {
		backend Backend
		wantErr bool
	}{
		{"", false},
		{BackendSimplex, false},
		{BackendPerlin, false},
		{"value", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			src, err := New(tt.backend, 42)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBackend) {
					t.Fatalf("expected ErrUnknownBackend, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) failed: %v", tt.backend, err)
			}
			if src.Seed() != 42 {
				t.Errorf("expected seed 42, got %d", src.Seed())
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	for _, backend := range []Backend{BackendSimplex, BackendPerlin} {
		a, _ := New(backend, 1234)
		b, _ := New(backend, 1234)
		for i := 0; i < 200; i++ {
			x := float64(i)*0.37 - 20
			y := float64(i)*-0.53 + 11
			if a.Eval2(x, y) != b.Eval2(x, y) {
				t.Fatalf("%s: Eval2(%v,%v) differs between identical seeds", backend, x, y)
			}
			if a.Eval3(x, y, 0.5) != b.Eval3(x, y, 0.5) {
				t.Fatalf("%s: Eval3(%v,%v) differs between identical seeds", backend, x, y)
			}
		}
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := NewSimplex(1)
	b := NewSimplex(2)
	same := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.71
		if a.Eval2(x, x*0.3) == b.Eval2(x, x*0.3) {
			same++
		}
	}
	if same > 10 {
		t.Errorf("expected different seeds to produce different noise, %d/100 samples equal", same)
	}
}

func TestRange(t *testing.T) {
	for _, backend := range []Backend{BackendSimplex, BackendPerlin} {
		src, _ := New(backend, 7)
		for i := 0; i < 1000; i++ {
			x := float64(i)*1.13 - 500
			y := float64(i)*0.29 + 40
			v := src.Eval2(x, y)
			if v < -1 || v > 1 {
				t.Fatalf("%s: Eval2 out of range: %v", backend, v)
			}
		}
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.25, 0.25},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := Finite(tt.in); got != tt.want {
			t.Errorf("Finite(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
