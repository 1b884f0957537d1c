package field

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate and New for unusable parameters.
var ErrInvalidConfig = errors.New("invalid field config")

// Config holds the tunable constants of the particle field.
type Config struct {
	ParticleCount int

	PointerRadius     float64 // Radius of pointer influence
	RepulsionStrength float64 // Force at zero distance from the pointer
	OriginPull        float64 // Spring factor toward the spawn position
	MaxSpeed          float64
	Friction          float64 // Velocity multiplier applied every frame
	Bounce            float64 // Fraction of speed kept after hitting an edge

	TransitionStep float64 // Progress change per frame toward/away from Complete
	PulseRate      float64 // Radians per frame of the analyzing pulse

	LinkRadius  float64
	LinkOpacity float64 // Link alpha at zero distance
	LinkWidth   float64 // Link width at zero distance
	GlowBlur    float64

	DriftStrength float64 // 0 disables the noise drift
	DriftScale    float64 // Noise frequency in 1/px
}

// DefaultConfig returns the stock field parameters.
func DefaultConfig() Config {
	return Config{
		ParticleCount:     150,
		PointerRadius:     150,
		RepulsionStrength: 0.5,
		OriginPull:        0.001,
		MaxSpeed:          5,
		Friction:          0.98,
		Bounce:            0.5,
		TransitionStep:    0.008,
		PulseRate:         0.03,
		LinkRadius:        150,
		LinkOpacity:       0.5,
		LinkWidth:         2,
		GlowBlur:          15,
		DriftStrength:     0,
		DriftScale:        0.005,
	}
}

// Validate reports the first unusable parameter.
func (c Config) Validate() error {
	switch {
	case c.ParticleCount <= 0:
		return fmt.Errorf("%w: particle count %d", ErrInvalidConfig, c.ParticleCount)
	case c.PointerRadius <= 0:
		return fmt.Errorf("%w: pointer radius %g", ErrInvalidConfig, c.PointerRadius)
	case c.LinkRadius <= 0:
		return fmt.Errorf("%w: link radius %g", ErrInvalidConfig, c.LinkRadius)
	case c.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed %g", ErrInvalidConfig, c.MaxSpeed)
	case c.Friction <= 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction %g", ErrInvalidConfig, c.Friction)
	case c.Bounce < 0 || c.Bounce > 1:
		return fmt.Errorf("%w: bounce %g", ErrInvalidConfig, c.Bounce)
	case c.TransitionStep <= 0 || c.TransitionStep > 1:
		return fmt.Errorf("%w: transition step %g", ErrInvalidConfig, c.TransitionStep)
	case c.DriftStrength < 0:
		return fmt.Errorf("%w: drift strength %g", ErrInvalidConfig, c.DriftStrength)
	}
	return nil
}
