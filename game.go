package main

import (
	"log/slog"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/resume-glow/internal/field"
	"github.com/olivierh59500/resume-glow/internal/render"
)

// Game hosts the particle field in an Ebitengine window.
type Game struct {
	sim      *field.Simulator
	renderer *render.Renderer
	frame    *field.Frame

	// Mode flags may be flipped by the analysis goroutine at any time;
	// Update snapshots them once per frame.
	analyzing atomic.Bool
	complete  atomic.Bool

	width, height int // Latest outside size reported by Layout
}

// NewGame wraps a simulator for Ebitengine.
func NewGame(sim *field.Simulator) *Game {
	w, h := sim.Size()
	return &Game{
		sim:      sim,
		renderer: render.NewRenderer(),
		width:    int(w),
		height:   int(h),
	}
}

// SetAnalyzing raises or lowers the analyzing flag.
func (g *Game) SetAnalyzing(v bool) { g.analyzing.Store(v) }

// SetComplete raises or lowers the complete flag.
func (g *Game) SetComplete(v bool) { g.complete.Store(v) }

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	if g.sim.Closed() {
		return ebiten.Termination
	}
	if err := g.handleInput(); err != nil {
		return err
	}

	if w, h := g.sim.Size(); int(w) != g.width || int(h) != g.height {
		g.sim.Resize(float64(g.width), float64(g.height))
	}

	mx, my := ebiten.CursorPosition()
	g.frame = g.sim.Tick(field.Input{
		Analyzing: g.analyzing.Load(),
		Complete:  g.complete.Load(),
		PointerX:  float64(mx),
		PointerY:  float64(my),
	})
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.frame)
}

// Layout tracks the window size so the field follows resizes
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// handleInput processes keyboard shortcuts
func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v := !g.analyzing.Load()
		g.analyzing.Store(v)
		slog.Debug("analyzing toggled", "value", v)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v := !g.complete.Load()
		g.complete.Store(v)
		slog.Debug("complete toggled", "value", v)
	}
	return nil
}
