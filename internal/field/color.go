package field

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a straight-alpha colour with channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// HSLA builds a colour from hue in degrees and saturation, lightness, alpha in [0, 1].
func HSLA(h, s, l, a float64) RGBA {
	c := colorful.Hsl(math.Mod(h, 360), s, l).Clamped()
	return RGBA{R: c.R, G: c.G, B: c.B, A: clamp01(a)}
}

// RGB255 builds a colour from 8-bit channels.
func RGB255(r, g, b uint8, a float64) RGBA {
	return RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: clamp01(a)}
}

// Lerp blends c toward o by t in RGB space.
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	t = clamp01(t)
	m := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(colorful.Color{R: o.R, G: o.G, B: o.B}, t)
	return RGBA{R: m.R, G: m.G, B: m.B, A: c.A + (o.A-c.A)*t}
}

// WithAlpha returns c with a replaced alpha.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = clamp01(a)
	return c
}

// NRGBA converts to the image/color straight-alpha type.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	successColor = RGB255(100, 255, 100, 1)
	successLink  = RGB255(50, 255, 50, 1)
)

// pulse maps the frame counter onto [0.3, 1.0].
func pulse(frame uint64, rate float64) float64 {
	return 0.3 + 0.7*(math.Sin(float64(frame)*rate)+1)/2
}

// particleColor is the per-frame colour of a particle.
func particleColor(mode Mode, baseHue float64, frame uint64, progress, rate float64) RGBA {
	idle := HSLA(baseHue, 0.8, 0.6, 0.8)
	switch mode {
	case Analyzing:
		p := pulse(frame, rate)
		return HSLA(0, 1, 0.6*p, p)
	case Complete:
		return idle.Lerp(successColor, progress).WithAlpha(0.6 + 0.4*progress)
	default:
		return idle
	}
}

// linkColors returns the two endpoint colours of a link with the given base opacity.
func linkColors(mode Mode, opacity float64, frame uint64, progress, rate float64) (RGBA, RGBA) {
	switch mode {
	case Analyzing:
		p := pulse(frame, rate)
		c := HSLA(0, 1, 0.6*p, opacity*p)
		return c, c
	case Complete:
		a := opacity * progress * 1.5
		return successColor.WithAlpha(a), successLink.WithAlpha(a)
	default:
		return HSLA(240, 0.8, 0.6, opacity), HSLA(280, 0.8, 0.6, opacity)
	}
}
