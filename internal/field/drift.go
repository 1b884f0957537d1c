package field

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Drift is a slowly evolving noise flow field that nudges particles.
type Drift struct {
	noise    *perlin.Perlin
	strength float64
	scale    float64
}

// NewDrift creates a flow field. The same seed yields the same field.
func NewDrift(seed int64, strength, scale float64) *Drift {
	return &Drift{
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		strength: strength,
		scale:    scale,
	}
}

// At returns the drift acceleration at (x, y) on the given frame.
func (d *Drift) At(x, y float64, frame uint64) (ax, ay float64) {
	if d == nil || d.strength == 0 {
		return 0, 0
	}
	t := float64(frame) * 0.002
	// noise in [-1, 1] mapped to a full turn
	angle := d.noise.Noise3D(x*d.scale, y*d.scale, t) * 2 * math.Pi
	return math.Cos(angle) * d.strength, math.Sin(angle) * d.strength
}
