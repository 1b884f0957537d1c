package field

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink consumes a frame. Returning false stops the pump, e.g. when the drawing surface
// has gone away.
type Sink func(*Frame) bool

// Pump drives a Simulator from a ticker. Host events may arrive from any goroutine and
// overwrite the latest known state; each Tick sees one consistent snapshot.
type Pump struct {
	sim      *Simulator
	interval time.Duration
	sink     Sink

	mu      sync.Mutex
	input   Input
	resize  bool
	w, h    float64
	started bool
	stopped bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewPump creates a pump ticking sim every interval and handing frames to sink.
func NewPump(sim *Simulator, interval time.Duration, sink Sink) *Pump {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Pump{
		sim:      sim,
		interval: interval,
		sink:     sink,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetMode records the two mode flags for the next frame.
func (p *Pump) SetMode(analyzing, complete bool) {
	p.mu.Lock()
	p.input.Analyzing, p.input.Complete = analyzing, complete
	p.mu.Unlock()
}

// SetPointer records the pointer position in canvas coordinates.
func (p *Pump) SetPointer(x, y float64) {
	p.mu.Lock()
	p.input.PointerX, p.input.PointerY = x, y
	p.mu.Unlock()
}

// Resize records a new canvas size, applied before the next frame.
func (p *Pump) Resize(w, h float64) {
	p.mu.Lock()
	p.w, p.h, p.resize = w, h, true
	p.mu.Unlock()
}

// snapshot takes the pending input and size under the lock.
func (p *Pump) snapshot() (Input, bool, float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	in, resize, w, h := p.input, p.resize, p.w, p.h
	p.resize = false
	return in, resize, w, h
}

// Run ticks the simulator until ctx is done, Stop is called or the sink refuses a
// frame. Frames are produced strictly one after another. Only the first call runs; later
// calls, or a call after Stop, return at once.
func (p *Pump) Run(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	defer close(p.done)
	defer p.Stop()
	if p.sim != nil {
		defer p.sim.Close()
	}

	if p.sink == nil || p.sim == nil {
		slog.Debug("field pump has no surface, not starting")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Debug("field pump started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
		}

		in, resize, w, h := p.snapshot()
		if resize {
			p.sim.Resize(w, h)
		}
		f := p.sim.Tick(in)
		if f == nil || !p.sink(f) {
			return
		}
	}
}

// Stop ends Run, which then closes the simulator. If Run was never started, Stop closes
// the simulator itself. It is safe to call more than once and from any goroutine.
func (p *Pump) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		started := p.started
		p.mu.Unlock()
		close(p.stop)

		if !started {
			if p.sim != nil {
				p.sim.Close()
			}
			close(p.done)
		}
	})
}

// Stopped reports whether Stop has been called.
func (p *Pump) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// Wait blocks until Run has returned, or until Stop if Run never started. The simulator is
// closed by then.
func (p *Pump) Wait() {
	<-p.done
}
