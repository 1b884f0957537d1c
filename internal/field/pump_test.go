package field

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPumpDeliversFramesInOrder(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)

	var mu sync.Mutex
	var counts []uint64
	pump := NewPump(s, time.Millisecond, func(f *Frame) bool {
		mu.Lock()
		defer mu.Unlock()
		counts = append(counts, f.Count)
		return len(counts) < 20
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pump.Run(ctx)

	if len(counts) != 20 {
		t.Fatalf("expected 20 frames, got %d", len(counts))
	}
	for i, c := range counts {
		if c != uint64(i) {
			t.Fatalf("frame %d delivered with count %d", i, c)
		}
	}
	if !s.Closed() {
		t.Error("simulator should be closed once the pump stops")
	}
}

func TestPumpStopIsIdempotent(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)
	pump := NewPump(s, time.Millisecond, func(*Frame) bool { return true })

	go pump.Run(context.Background())
	time.Sleep(10 * time.Millisecond)

	pump.Stop()
	pump.Stop()
	pump.Wait()

	if !pump.Stopped() || !s.Closed() {
		t.Fatal("expected pump stopped and simulator closed")
	}
	count := s.FrameCount()
	time.Sleep(10 * time.Millisecond)
	if s.FrameCount() != count {
		t.Error("frames were ticked after Stop")
	}
	pump.Stop()
}

func TestPumpAppliesLatestInput(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)

	frames := make(chan Frame, 1)
	pump := NewPump(s, time.Millisecond, func(f *Frame) bool {
		frames <- *f
		return false
	})

	// last write wins
	pump.SetMode(true, false)
	pump.SetMode(false, true)
	pump.SetPointer(10, 10)
	pump.Resize(100, 50)
	pump.Resize(640, 480)

	pump.Run(context.Background())
	f := <-frames

	if f.Mode != Complete {
		t.Errorf("expected complete mode, got %v", f.Mode)
	}
	if f.Width != 640 || f.Height != 480 {
		t.Errorf("expected 640x480, got %fx%f", f.Width, f.Height)
	}
}

func TestPumpWithoutSurfaceIsNoop(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)
	pump := NewPump(s, time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		pump.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump without a sink should return immediately")
	}
	if s.FrameCount() != 0 {
		t.Errorf("expected no frames, got %d", s.FrameCount())
	}
}

func TestPumpStopsOnContext(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)
	pump := NewPump(s, time.Millisecond, func(*Frame) bool { return true })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	pump.Run(ctx)

	if !pump.Stopped() {
		t.Error("expected pump to mark itself stopped")
	}
}

func TestPumpStopBeforeRun(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)
	pump := NewPump(s, time.Millisecond, func(*Frame) bool { return true })

	pump.Stop()

	waited := make(chan struct{})
	go func() {
		pump.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait should return after Stop even if Run never started")
	}
	if !s.Closed() {
		t.Error("Stop should close the simulator when Run never started")
	}

	// Run after Stop must not tick or panic
	pump.Run(context.Background())
	if s.FrameCount() != 0 {
		t.Errorf("expected no frames, got %d", s.FrameCount())
	}
}

func TestPumpRunTwice(t *testing.T) {
	s := newTestSim(t, DefaultConfig(), 320, 240)
	pump := NewPump(s, time.Millisecond, func(*Frame) bool { return true })

	go pump.Run(context.Background())
	time.Sleep(5 * time.Millisecond)

	second := make(chan struct{})
	go func() {
		pump.Run(context.Background())
		close(second)
	}()
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second Run should return at once")
	}

	pump.Stop()
	pump.Wait()
	if !s.Closed() {
		t.Error("expected simulator closed after Stop")
	}
}
