// Package clock derives human-readable elapsed time from a session's start
// instant. Formatting is pure; only the ticking Engine has a lifecycle.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// FormatElapsed renders a duration as mm:ss, rolling over to hh:mm:ss once
// the elapsed time passes 60 minutes. Negative durations render as 00:00.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Since formats the elapsed time from start until now.
func Since(start time.Time) string {
	return FormatElapsed(time.Since(start))
}

// Engine fires a callback on a fixed interval while a session is active.
// Start and Stop are idempotent; Stop only signals the tick goroutine and
// never waits for it, so a caller holding a lock taken by the callback
// cannot deadlock against an in-flight tick.
type Engine struct {
	interval time.Duration
	onTick   func()

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewEngine creates a stopped engine. onTick must be non-nil.
func NewEngine(interval time.Duration, onTick func()) *Engine {
	if interval <= 0 {
		interval = time.Second
	}
	return &Engine{interval: interval, onTick: onTick}
}

// Start launches the tick goroutine. No-op if already running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	go e.loop(e.stop)
}

func (e *Engine) loop(stop chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Re-check stop so a tick racing Stop is dropped rather
			// than delivered after the session ended.
			select {
			case <-stop:
				return
			default:
			}
			e.onTick()
		}
	}
}

// Stop cancels the tick goroutine. Safe to call repeatedly and from the
// callback's own lock scope.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.stop)
}

// Running reports whether the engine is currently ticking.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}
