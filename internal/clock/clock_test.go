package clock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchday/courtside/internal/clock"
)

// TestFormatElapsed covers the mm:ss shape and the hh:mm:ss rollover past
// 60 minutes.
func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{7 * time.Second, "00:07"},
		{90 * time.Second, "01:30"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour, "01:00:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25*time.Hour + 30*time.Minute, "25:30:00"},
	}
	for _, tt := range tests {
		if got := clock.FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// TestFormatElapsedMonotonic: formatting longer durations never reads as an
// earlier time within the same hour band.
func TestFormatElapsedMonotonic(t *testing.T) {
	prev := ""
	for d := time.Duration(0); d < 2*time.Minute; d += time.Second {
		got := clock.FormatElapsed(d)
		if prev != "" && got < prev {
			t.Fatalf("elapsed went backwards: %q after %q", got, prev)
		}
		prev = got
	}
}

// TestEngineTicksAndStops verifies ticks arrive while running and stop after
// Stop — no dangling timer may keep firing once the session ends.
func TestEngineTicksAndStops(t *testing.T) {
	var ticks atomic.Int64
	e := clock.NewEngine(5*time.Millisecond, func() { ticks.Add(1) })

	e.Start()
	if !e.Running() {
		t.Fatal("engine not running after Start")
	}

	deadline := time.After(time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("engine produced no ticks")
		case <-time.After(time.Millisecond):
		}
	}

	e.Stop()
	if e.Running() {
		t.Fatal("engine still running after Stop")
	}

	// Allow any in-flight tick to land, then confirm the count is frozen.
	time.Sleep(20 * time.Millisecond)
	frozen := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != frozen {
		t.Errorf("engine ticked after Stop: %d -> %d", frozen, got)
	}
}

// TestEngineIdempotentLifecycle: repeated Start/Stop calls are safe.
func TestEngineIdempotentLifecycle(t *testing.T) {
	e := clock.NewEngine(time.Millisecond, func() {})
	e.Stop() // stop before start is a no-op
	e.Start()
	e.Start()
	e.Stop()
	e.Stop()
	e.Start() // restart after stop works
	e.Stop()
}
