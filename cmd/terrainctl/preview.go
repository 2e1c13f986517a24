package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/heightfield"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Sun direction for hill shading, pointing towards the light.
var sunDir = [3]float64{-0.5, 0.7, -0.5}

func cmdPreview(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	cx := fs.Float64("x", 0, "Center X")
	cz := fs.Float64("z", 0, "Center Z")
	size := fs.Float64("size", 8192, "World extent in units")
	px := fs.Int("px", 512, "Image size in pixels")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: terrainctl preview [-x -z -size -px] <out.png|out.bmp>")
	}
	if *px < 1 || !(*size > 0) {
		return fmt.Errorf("invalid preview size %v / %d px", *size, *px)
	}
	out := fs.Arg(0)

	field, err := heightfield.New(cfg.Terrain)
	if err != nil {
		return err
	}

	img := renderPreview(field, *cx, *cz, *size, *px, cfg.Update.Workers)
	if err := writeImage(out, img); err != nil {
		return err
	}

	logger.Info("preview written", zap.String("path", out), zap.Int("px", *px), zap.Float64("size", *size))
	fmt.Printf("Wrote %s (%dx%d, %g units)\n", out, *px, *px, *size)
	return nil
}

// renderPreview shades a height map of the square region centered at
// (cx, cz), one row per pool task.
func renderPreview(field *heightfield.Field, cx, cz, size float64, px, workers int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, px, px))
	step := size / float64(px)
	minX := cx - size/2
	minZ := cz - size/2

	lo, hi := field.HeightRange()
	scale := field.Config().BaseHeightScale
	lo *= scale
	hi *= scale
	maxDepth := math.Max(field.Config().WaterMaxDepth, 1)

	if workers <= 0 {
		workers = 4
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	var wg sync.WaitGroup
	for row := 0; row < px; row++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			wz := minZ + (float64(row)+0.5)*step
			for col := 0; col < px; col++ {
				wx := minX + (float64(col)+0.5)*step
				img.SetRGBA(col, row, shade(field, wx, wz, lo, hi, maxDepth))
			}
		})
	}
	wg.Wait()
	return img
}

func shade(field *heightfield.Field, x, z, lo, hi, maxDepth float64) color.RGBA {
	if d := field.WaterDepth(x, z); d > 0 {
		t := math.Min(d/maxDepth, 1)
		return color.RGBA{
			R: uint8(40 - 30*t),
			G: uint8(110 - 70*t),
			B: uint8(200 - 90*t),
			A: 255,
		}
	}

	h := field.Height(x, z)
	t := (h - lo) / (hi - lo)
	t = math.Max(0, math.Min(1, t))

	n := field.Normal(x, z)
	l := math.Sqrt(sunDir[0]*sunDir[0] + sunDir[1]*sunDir[1] + sunDir[2]*sunDir[2])
	light := (float64(n[0])*sunDir[0] + float64(n[1])*sunDir[1] + float64(n[2])*sunDir[2]) / l
	light = 0.35 + 0.65*math.Max(0, light)

	g := (60 + 195*t) * light
	return color.RGBA{R: uint8(g * 0.9), G: uint8(g), B: uint8(g * 0.8), A: 255}
}

func writeImage(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = png.Encode
	case ".bmp":
		encode = bmp.Encode
	default:
		return fmt.Errorf("unsupported image format %q (use .png or .bmp)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
