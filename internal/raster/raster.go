// Package raster draws render lists into images.
//
// The canvas is a square of Size CSS pixels rendered at a pixel ratio, so a
// 512px canvas exported at ratio 3 becomes a 1536x1536 PNG. Full-bleed
// entries are scaled to cover the canvas. Sprites keep their natural size,
// are centered, moved by their offset, then scaled and rotated (clockwise
// in degrees) about their own center.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/danieljhkim/rexyz/internal/compose"
)

// Renderer rasterizes render lists.
type Renderer struct {
	loader     Loader
	size       int
	background color.RGBA
	logger     logrus.FieldLogger
}

// NewRenderer creates a Renderer for a canvas of size CSS pixels filled with
// the #rrggbb color background.
func NewRenderer(loader Loader, size int, background string, logger logrus.FieldLogger) (*Renderer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %d", size)
	}
	bg, err := ParseHexColor(background)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		loader:     loader,
		size:       size,
		background: bg,
		logger:     logger,
	}, nil
}

// Size returns the canvas edge length in CSS pixels.
func (r *Renderer) Size() int {
	return r.size
}

// Render draws entries bottom first onto a new image of
// size*pixelRatio pixels per edge.
func (r *Renderer) Render(ctx context.Context, entries []compose.Entry, pixelRatio float64) (*image.RGBA, error) {
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) {
		return nil, fmt.Errorf("pixel ratio must be positive, got %v", pixelRatio)
	}

	px := int(math.Round(float64(r.size) * pixelRatio))
	dst := image.NewRGBA(image.Rect(0, 0, px, px))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: r.background}, image.Point{}, draw.Src)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, err := r.loader.Load(ctx, e.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to load layer %s: %w", e.ID, err)
		}
		sr := src.Bounds()
		if sr.Empty() {
			continue
		}

		var m f64.Aff3
		if e.FullBleed {
			m = coverMatrix(sr, px)
		} else {
			m = spriteMatrix(sr, r.size, pixelRatio, e.Transform)
		}
		draw.BiLinear.Transform(dst, m, src, sr, draw.Over, nil)
	}

	r.logger.WithFields(logrus.Fields{
		"layers": len(entries),
		"pixels": px,
	}).Debug("rendered composition")

	return dst, nil
}

// coverMatrix scales sr uniformly so it covers a px square, centered.
func coverMatrix(sr image.Rectangle, px int) f64.Aff3 {
	w, h := float64(sr.Dx()), float64(sr.Dy())
	k := math.Max(float64(px)/w, float64(px)/h)
	tx := (float64(px)-w*k)/2 - k*float64(sr.Min.X)
	ty := (float64(px)-h*k)/2 - k*float64(sr.Min.Y)
	return f64.Aff3{
		k, 0, tx,
		0, k, ty,
	}
}

// spriteMatrix maps the center of sr to the canvas center moved by the
// transform offset, scaling and rotating around that point.
func spriteMatrix(sr image.Rectangle, size int, pixelRatio float64, t compose.Transform) f64.Aff3 {
	s := t.Scale * pixelRatio
	theta := float64(t.Rotation) * math.Pi / 180
	sin, cos := math.Sincos(theta)

	a, b := s*cos, -s*sin
	d, e := s*sin, s*cos

	cx := (float64(size)/2 + float64(t.OffsetX)) * pixelRatio
	cy := (float64(size)/2 + float64(t.OffsetY)) * pixelRatio

	sx := float64(sr.Min.X) + float64(sr.Dx())/2
	sy := float64(sr.Min.Y) + float64(sr.Dy())/2

	return f64.Aff3{
		a, b, cx - (a*sx + b*sy),
		d, e, cy - (d*sx + e*sy),
	}
}

// ParseHexColor parses "#rrggbb" (or "#rgb") into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
