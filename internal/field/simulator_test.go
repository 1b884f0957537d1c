package field

import (
	"errors"
	"math"
	"testing"
)

func newTestSim(t *testing.T, cfg Config, w, h float64) *Simulator {
	t.Helper()
	s, err := New(cfg, w, h, 42)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewInitialisesParticles(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSim(t, cfg, 800, 600)

	ps := s.Particles()
	if len(ps) != cfg.ParticleCount {
		t.Fatalf("expected %d particles, got %d", cfg.ParticleCount, len(ps))
	}
	for i, p := range ps {
		if p.X < 0 || p.X > 800 || p.Y < 0 || p.Y > 600 {
			t.Errorf("particle %d spawned off canvas at (%f, %f)", i, p.X, p.Y)
		}
		if p.X != p.OriginX || p.Y != p.OriginY {
			t.Errorf("particle %d origin (%f, %f) differs from position", i, p.OriginX, p.OriginY)
		}
		if p.VX < -1 || p.VX > 1 || p.VY < -1 || p.VY > 1 {
			t.Errorf("particle %d velocity out of range: (%f, %f)", i, p.VX, p.VY)
		}
		if p.Size < 1 || p.Size >= 4 {
			t.Errorf("particle %d size %f out of [1, 4)", i, p.Size)
		}
		if p.BaseHue < 220 || p.BaseHue >= 280 {
			t.Errorf("particle %d hue %f out of [220, 280)", i, p.BaseHue)
		}
		if p.Angle < 0 || p.Angle >= 360 || p.Spin < -1 || p.Spin > 1 {
			t.Errorf("particle %d rotation out of range: angle=%f spin=%f", i, p.Angle, p.Spin)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no particles", func(c *Config) { c.ParticleCount = 0 }},
		{"zero pointer radius", func(c *Config) { c.PointerRadius = 0 }},
		{"zero link radius", func(c *Config) { c.LinkRadius = 0 }},
		{"negative max speed", func(c *Config) { c.MaxSpeed = -1 }},
		{"friction above one", func(c *Config) { c.Friction = 1.5 }},
		{"transition step zero", func(c *Config) { c.TransitionStep = 0 }},
		{"negative drift", func(c *Config) { c.DriftStrength = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, 100, 100, 1); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSameSeedSameField(t *testing.T) {
	a := newTestSim(t, DefaultConfig(), 640, 480)
	b := newTestSim(t, DefaultConfig(), 640, 480)
	for i := 0; i < 20; i++ {
		a.Tick(Input{PointerX: 300, PointerY: 200})
		b.Tick(Input{PointerX: 300, PointerY: 200})
	}
	for i := range a.Particles() {
		if a.Particles()[i].X != b.Particles()[i].X || a.Particles()[i].Y != b.Particles()[i].Y {
			t.Fatalf("particle %d diverged between identically seeded simulators", i)
		}
	}
}

func TestBoundaryContainmentAndSpeedBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DriftStrength = 0.3
	s := newTestSim(t, cfg, 400, 300)

	for frame := 0; frame < 500; frame++ {
		// sweep the pointer across the canvas to keep kicking particles into the walls
		in := Input{
			PointerX:  float64(frame%400) * 1.0,
			PointerY:  150 + 100*math.Sin(float64(frame)*0.1),
			Analyzing: frame%200 < 50,
			Complete:  frame%200 >= 100,
		}
		s.Tick(in)
		for i, p := range s.Particles() {
			if p.X < 0 || p.X > 400 || p.Y < 0 || p.Y > 300 {
				t.Fatalf("frame %d: particle %d escaped to (%f, %f)", frame, i, p.X, p.Y)
			}
			if v := math.Hypot(p.VX, p.VY); v > cfg.MaxSpeed+1e-9 {
				t.Fatalf("frame %d: particle %d speed %f above cap", frame, i, v)
			}
		}
	}
}

func TestResizeClampsOnNextTick(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 1000, 1000)
	s.Resize(200, 100)
	outside := false
	for _, p := range s.Particles() {
		if p.X > 200 || p.Y > 100 {
			outside = true
		}
	}
	if !outside {
		t.Skip("no particle spawned outside the shrunk canvas")
	}

	s.Tick(Input{PointerX: -1000, PointerY: -1000})
	for i, p := range s.Particles() {
		if p.X > 200 || p.Y > 100 {
			t.Errorf("particle %d not clamped after resize: (%f, %f)", i, p.X, p.Y)
		}
	}
	if w, h := s.Size(); w != 200 || h != 100 {
		t.Errorf("expected size 200x100, got %fx%f", w, h)
	}
}

func TestTransitionReachesOneAfter125Frames(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 800, 600)
	in := Input{Complete: true}

	prev := s.Progress()
	for frame := 1; frame <= 124; frame++ {
		s.Tick(in)
		if s.Progress() < prev {
			t.Fatalf("frame %d: progress decreased from %f to %f", frame, prev, s.Progress())
		}
		if s.Progress() >= 1 {
			t.Fatalf("frame %d: progress reached 1 too early", frame)
		}
		prev = s.Progress()
	}
	s.Tick(in)
	if s.Progress() != 1 {
		t.Fatalf("expected progress 1 after 125 frames, got %v", s.Progress())
	}
	for i := 0; i < 10; i++ {
		s.Tick(in)
		if s.Progress() != 1 {
			t.Fatalf("progress left 1 while complete: %v", s.Progress())
		}
	}
}

func TestTransitionFadesBackToZero(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 800, 600)
	for i := 0; i < 125; i++ {
		s.Tick(Input{Complete: true})
	}

	prev := s.Progress()
	for frame := 1; frame <= 200; frame++ {
		// analyzing wins over complete, so this is not the complete mode
		s.Tick(Input{Analyzing: true, Complete: true})
		p := s.Progress()
		if p > prev || p < 0 || p > 1 {
			t.Fatalf("frame %d: progress %f after %f", frame, p, prev)
		}
		prev = p
	}
	if prev != 0 {
		t.Errorf("expected progress 0, got %v", prev)
	}
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		analyzing, complete bool
		want                Mode
	}{
		{false, false, Idle},
		{true, false, Analyzing},
		{false, true, Complete},
		{true, true, Analyzing},
	}
	for _, tt := range tests {
		if got := ModeFor(tt.analyzing, tt.complete); got != tt.want {
			t.Errorf("ModeFor(%v, %v) = %v, want %v", tt.analyzing, tt.complete, got, tt.want)
		}
	}
}

func TestModeChangeKeepsParticles(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 800, 600)
	s.Tick(Input{})
	before := append([]Particle(nil), s.Particles()...)

	f := s.Tick(Input{Analyzing: true})
	if f.Mode != Analyzing {
		t.Fatalf("expected analyzing frame, got %v", f.Mode)
	}
	for i, p := range s.Particles() {
		if p.OriginX != before[i].OriginX || p.OriginY != before[i].OriginY {
			t.Fatalf("particle %d was respawned on mode change", i)
		}
		if math.Hypot(p.X-before[i].X, p.Y-before[i].Y) > DefaultConfig().MaxSpeed {
			t.Fatalf("particle %d jumped on mode change", i)
		}
	}
}

func TestIdleParticlesReturnToOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	s := newTestSim(t, cfg, 2000, 2000)

	p := &s.Particles()[0]
	p.OriginX, p.OriginY = 1000, 1000
	p.X, p.Y = 1080, 940
	p.VX, p.VY = 0, 0

	dist := func() float64 { return math.Hypot(p.X-p.OriginX, p.Y-p.OriginY) }
	initial := dist()

	// the pointer rests at (0, 0), far outside its radius
	prev := initial
	for frame := 1; frame <= 30; frame++ {
		s.Tick(Input{})
		d := dist()
		if d >= prev {
			t.Fatalf("frame %d: distance to origin grew from %f to %f", frame, prev, d)
		}
		prev = d
	}

	for frame := 31; frame <= 300; frame++ {
		s.Tick(Input{})
	}
	for frame := 301; frame <= 400; frame++ {
		s.Tick(Input{})
		if d := dist(); d > 0.2*initial {
			t.Fatalf("frame %d: distance %f has not settled (initial %f)", frame, d, initial)
		}
	}
}

func TestPointerRepelsNearbyParticle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	s := newTestSim(t, cfg, 1000, 1000)

	p := &s.Particles()[0]
	p.X, p.Y = 500, 500
	p.OriginX, p.OriginY = 500, 500
	p.VX, p.VY = 0, 0

	px, py := 506.0, 504.0
	s.Tick(Input{PointerX: px, PointerY: py})

	dx, dy := 500-px, 500-py
	if dot := dx*p.VX + dy*p.VY; dot <= 0 {
		t.Errorf("expected velocity away from pointer, got v=(%f, %f)", p.VX, p.VY)
	}
}

func TestPointerOnTopOfParticle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	s := newTestSim(t, cfg, 1000, 1000)

	p := &s.Particles()[0]
	p.X, p.Y, p.OriginX, p.OriginY = 500, 500, 500, 500
	p.VX, p.VY = 0, 0

	s.Tick(Input{PointerX: 500, PointerY: 500})
	if math.IsNaN(p.X) || math.IsNaN(p.VX) || p.VX <= 0 {
		t.Errorf("expected a finite push along +x, got v=(%f, %f)", p.VX, p.VY)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 100, 100)
	s.Tick(Input{})
	s.Close()
	s.Close()

	if !s.Closed() {
		t.Fatal("expected simulator to report closed")
	}
	count := s.FrameCount()
	if f := s.Tick(Input{}); f != nil {
		t.Error("expected nil frame from closed simulator")
	}
	if s.FrameCount() != count {
		t.Error("closed simulator advanced its frame counter")
	}
}

func TestFrameCounterAndCommands(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSim(t, cfg, 800, 600)

	for i := uint64(0); i < 5; i++ {
		f := s.Tick(Input{})
		if f.Count != i {
			t.Errorf("expected frame %d, got %d", i, f.Count)
		}
		if len(f.Sprites) != cfg.ParticleCount {
			t.Errorf("expected %d sprites, got %d", cfg.ParticleCount, len(f.Sprites))
		}
		if len(f.Background) != 1 {
			t.Errorf("idle background should have one layer, got %d", len(f.Background))
		}
	}
	if s.FrameCount() != 5 {
		t.Errorf("expected frame counter 5, got %d", s.FrameCount())
	}

	f := s.Tick(Input{Complete: true})
	if len(f.Background) != 3 {
		t.Errorf("complete background should have base plus two glows, got %d", len(f.Background))
	}
}
