// Package field simulates the decorative particle background: particles pushed away by the
// pointer, pulled back to where they spawned, linked to their neighbours and coloured by
// the current analysis mode.
package field

import (
	"fmt"
	"math"
	"math/rand"
)

// Particle is a single point of the field.
type Particle struct {
	X, Y             float64 // Position
	OriginX, OriginY float64 // Spawn position, anchor of the restoring force
	VX, VY           float64 // Velocity in px/frame
	Size             float64
	Angle            float64 // Degrees, unbounded
	Spin             float64 // Degrees per frame
	BaseHue          float64
	Color            RGBA
}

// Simulator owns the particle field. It is not safe for concurrent use; hosts drive it
// from a single goroutine (see Pump).
type Simulator struct {
	cfg           Config
	width, height float64
	particles     []Particle
	progress      float64 // Transition toward the complete palette, [0, 1]
	frames        uint64  // Monotonic, never reset
	drift         *Drift
	rng           *rand.Rand

	bins   map[binKey]Bin
	frame  Frame
	closed bool
}

// New creates a simulator with cfg.ParticleCount particles spread over a width×height canvas.
func New(cfg Config, width, height float64, seed int64) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: canvas %gx%g", ErrInvalidConfig, width, height)
	}

	s := &Simulator{
		cfg:    cfg,
		width:  width,
		height: height,
		rng:    rand.New(rand.NewSource(seed)),
		bins:   make(map[binKey]Bin),
	}
	if cfg.DriftStrength > 0 {
		s.drift = NewDrift(seed, cfg.DriftStrength, cfg.DriftScale)
	}

	s.particles = make([]Particle, cfg.ParticleCount)
	for i := range s.particles {
		x := s.rng.Float64() * width
		y := s.rng.Float64() * height
		p := Particle{
			X:       x,
			Y:       y,
			OriginX: x,
			OriginY: y,
			VX:      s.rng.Float64()*2 - 1,
			VY:      s.rng.Float64()*2 - 1,
			Size:    s.rng.Float64()*3 + 1,
			BaseHue: s.rng.Float64()*60 + 220,
			Angle:   s.rng.Float64() * 360,
			Spin:    s.rng.Float64()*2 - 1,
		}
		p.Color = particleColor(Idle, p.BaseHue, 0, 0, cfg.PulseRate)
		s.particles[i] = p
	}

	return s, nil
}

// Resize updates the canvas size. Particles are not repositioned; any outside the new
// bounds are clamped back on the next Tick.
func (s *Simulator) Resize(width, height float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width, s.height = width, height
}

// Close tears the simulator down. It is safe to call more than once.
func (s *Simulator) Close() {
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Simulator) Closed() bool { return s.closed }

// Particles exposes the particle slice. Callers must not resize it.
func (s *Simulator) Particles() []Particle { return s.particles }

// Progress returns the transition progress toward the complete palette.
func (s *Simulator) Progress() float64 { return s.progress }

// FrameCount returns the number of frames ticked so far.
func (s *Simulator) FrameCount() uint64 { return s.frames }

// Size returns the current canvas size.
func (s *Simulator) Size() (float64, float64) { return s.width, s.height }

// Config returns the parameters the simulator was built with.
func (s *Simulator) Config() Config { return s.cfg }

// Tick advances the field by one frame and returns the render commands for it.
// It returns nil once the simulator has been closed.
func (s *Simulator) Tick(in Input) *Frame {
	if s.closed {
		return nil
	}
	mode := ModeFor(in.Analyzing, in.Complete)

	s.advanceTransition(mode)

	for i := range s.particles {
		s.step(&s.particles[i], in.PointerX, in.PointerY)
		p := &s.particles[i]
		p.Color = particleColor(mode, p.BaseHue, s.frames, s.progress, s.cfg.PulseRate)
	}

	f := &s.frame
	f.Width, f.Height = s.width, s.height
	f.Mode = mode
	f.Progress = s.progress
	f.Count = s.frames
	f.Background = background(mode, s.width, s.height, s.frames, s.progress, s.cfg.PulseRate)

	f.Sprites = f.Sprites[:0]
	for _, p := range s.particles {
		f.Sprites = append(f.Sprites, Sprite{
			X: p.X, Y: p.Y, Size: p.Size, Angle: p.Angle, Glow: s.cfg.GlowBlur, Color: p.Color,
		})
	}

	f.Links = f.Links[:0]
	buildBins(s.bins, s.particles, s.cfg.LinkRadius)
	eachPair(s.bins, s.particles, s.cfg.LinkRadius, func(i, j int, d float64) {
		fade := 1 - d/s.cfg.LinkRadius
		from, to := linkColors(mode, s.cfg.LinkOpacity*fade, s.frames, s.progress, s.cfg.PulseRate)
		a, b := s.particles[i], s.particles[j]
		f.Links = append(f.Links, Link{
			X0: a.X, Y0: a.Y, X1: b.X, Y1: b.Y,
			Width: s.cfg.LinkWidth * fade,
			From:  from,
			To:    to,
		})
	})

	s.frames++
	return f
}

// advanceTransition eases progress toward 1 in Complete mode and toward 0 otherwise.
func (s *Simulator) advanceTransition(mode Mode) {
	const eps = 1e-9
	if mode == Complete {
		s.progress += s.cfg.TransitionStep
		if s.progress > 1-eps {
			s.progress = 1
		}
	} else {
		s.progress -= s.cfg.TransitionStep
		if s.progress < eps {
			s.progress = 0
		}
	}
}

// step applies the forces, integrates and keeps the particle on the canvas.
func (s *Simulator) step(p *Particle, px, py float64) {
	c := &s.cfg

	// Pointer repulsion, stronger when closer
	dx := p.X - px
	dy := p.Y - py
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < c.PointerRadius {
		force := (1 - dist/c.PointerRadius) * c.RepulsionStrength
		ux, uy := 1.0, 0.0
		if dist > 0 {
			ux, uy = dx/dist, dy/dist
		}
		p.VX += ux * force
		p.VY += uy * force
	}

	// Pull back toward the spawn position
	p.VX += (p.OriginX - p.X) * c.OriginPull
	p.VY += (p.OriginY - p.Y) * c.OriginPull

	if s.drift != nil {
		ax, ay := s.drift.At(p.X, p.Y, s.frames)
		p.VX += ax
		p.VY += ay
	}

	speed := math.Sqrt(p.VX*p.VX + p.VY*p.VY)
	if speed > c.MaxSpeed {
		p.VX = p.VX / speed * c.MaxSpeed
		p.VY = p.VY / speed * c.MaxSpeed
	}

	p.VX *= c.Friction
	p.VY *= c.Friction

	p.X += p.VX
	p.Y += p.VY
	p.Angle += p.Spin

	// Inelastic bounce off the edges
	if p.X > s.width {
		p.X = s.width
		p.VX *= -c.Bounce
	}
	if p.X < 0 {
		p.X = 0
		p.VX *= -c.Bounce
	}
	if p.Y > s.height {
		p.Y = s.height
		p.VY *= -c.Bounce
	}
	if p.Y < 0 {
		p.Y = 0
		p.VY *= -c.Bounce
	}
}
