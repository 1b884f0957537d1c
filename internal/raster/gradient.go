// Package raster paints the radial-gradient background layers of a field frame into an
// RGBA image, so that hosts without native gradients can upload it as a texture.
package raster

import (
	"image"
	"math"

	"github.com/olivierh59500/resume-glow/internal/field"
)

// Rasterize composites layers (bottom first) into dst. dst covers the canvas scaled by
// scale, e.g. 0.125 paints one pixel per 8×8 canvas block. dst is cleared first.
func Rasterize(dst *image.RGBA, layers []field.Gradient, scale float64) {
	if dst == nil || scale <= 0 {
		return
	}
	b := dst.Bounds()
	for i := range dst.Pix {
		dst.Pix[i] = 0
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// sample at the pixel centre in canvas space
			cx := (float64(x-b.Min.X) + 0.5) / scale
			cy := (float64(y-b.Min.Y) + 0.5) / scale

			var r, g, bl, a float64 // premultiplied accumulator
			for _, l := range layers {
				c := Sample(l, cx, cy)
				// source-over
				r = c.R*c.A + r*(1-c.A)
				g = c.G*c.A + g*(1-c.A)
				bl = c.B*c.A + bl*(1-c.A)
				a = c.A + a*(1-c.A)
			}

			off := dst.PixOffset(x, y)
			dst.Pix[off+0] = to8(r)
			dst.Pix[off+1] = to8(g)
			dst.Pix[off+2] = to8(bl)
			dst.Pix[off+3] = to8(a)
		}
	}
}

// Sample returns the gradient colour at canvas point (x, y).
func Sample(l field.Gradient, x, y float64) field.RGBA {
	if len(l.Stops) == 0 {
		return field.RGBA{}
	}
	t := 1.0
	if l.Radius > 0 {
		t = math.Hypot(x-l.CX, y-l.CY) / l.Radius
	}
	return At(l.Stops, t)
}

// At interpolates the stops at offset t. Offsets outside the stop range take the nearest
// end stop.
func At(stops []field.Stop, t float64) field.RGBA {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if t <= hi.Offset {
			span := hi.Offset - lo.Offset
			if span <= 0 {
				return hi.Color
			}
			return lerpPremultiplied(lo.Color, hi.Color, (t-lo.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

// lerpPremultiplied blends two straight-alpha colours in premultiplied space, the way
// canvas gradients do, so a stop fading to transparent keeps its hue instead of darkening.
func lerpPremultiplied(a, b field.RGBA, t float64) field.RGBA {
	alpha := a.A + (b.A-a.A)*t
	if alpha <= 0 {
		return field.RGBA{}
	}
	mix := func(x, y float64) float64 {
		return (x*a.A + (y*b.A-x*a.A)*t) / alpha
	}
	return field.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: alpha}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
