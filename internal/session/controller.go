package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/clock"
	"github.com/matchday/courtside/internal/practice"
)

// Phase is the lifecycle state of the controller. Transitions:
//
//	absent  --Start(ok)-------> active
//	absent  --FetchActive(hit)> active
//	active  --UpdateScore/UpdateDrill--> active
//	active  --End(ok)---------> absent
//	active  --End(fail)-------> active   (error set)
//	loading --Start(fail)-----> absent   (error set)
type Phase string

const (
	PhaseAbsent  Phase = "absent"
	PhaseLoading Phase = "loading"
	PhaseActive  Phase = "active"
	PhaseEnding  Phase = "ending"
)

// Snapshot is a consistent read of controller state, safe to retain.
type Snapshot struct {
	Phase    Phase
	Fetching bool
	Session  *Session // deep copy; nil unless a session exists
	Err      string
	Elapsed  string // formatted elapsed time, empty when no session
}

// Controller is the single source of truth for "is there an active session,
// and what is its current state". All mutation goes through its methods,
// guarded by one mutex so the single-writer invariant holds on a
// multi-threaded runtime; surfaces only read snapshots and subscribe.
type Controller struct {
	backend      Backend
	cache        Cache
	tickInterval time.Duration

	mu       sync.Mutex
	phase    Phase
	fetching bool
	sess     *Session
	errMsg   string
	tick     *clock.Engine
	subs     map[int]chan struct{}
	nextSub  int
}

// Option configures a Controller.
type Option func(*Controller)

// WithCache mirrors the active session to the given cache.
func WithCache(c Cache) Option {
	return func(ctrl *Controller) { ctrl.cache = c }
}

// WithTickInterval overrides the 1s clock tick, mainly for tests.
func WithTickInterval(d time.Duration) Option {
	return func(ctrl *Controller) { ctrl.tickInterval = d }
}

// NewController creates a controller in the absent phase.
func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:      backend,
		tickInterval: time.Second,
		phase:        PhaseAbsent,
		subs:         make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Subscribe returns a change-signal channel and a cancel function. The
// channel carries at most one pending signal; readers re-read Snapshot on
// each receive, so coalesced signals lose nothing.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) notifyLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default: // a signal is already pending
		}
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	c.notifyLocked()
	c.mu.Unlock()
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Phase:    c.phase,
		Fetching: c.fetching,
		Session:  c.sess.Clone(),
		Err:      c.errMsg,
	}
	if c.sess != nil {
		snap.Elapsed = clock.Since(c.sess.StartedAt)
	}
	return snap
}

// FetchActive queries the backend for an existing active session, covering
// the reopen-the-app case. Failure is non-fatal and silent: it resolves to
// "no session" rather than a visible error, since the user can always start
// a new one. No-op unless the controller is in the absent phase.
func (c *Controller) FetchActive(ctx context.Context) {
	c.mu.Lock()
	if c.phase != PhaseAbsent || c.fetching {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.notifyLocked()
	c.mu.Unlock()

	s, err := c.backend.ActiveSession(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false
	if err != nil || s == nil || c.phase != PhaseAbsent {
		c.notifyLocked()
		return
	}
	c.adoptLocked(s)
}

// Start creates a new session on the backend and adopts the returned
// representation. A start issued while another is in flight returns
// ErrStartPending and changes nothing; a start over an existing session
// returns ErrSessionActive. On backend failure no session is adopted, the
// shared error is set, and the error is returned for the caller's flow.
func (c *Controller) Start(ctx context.Context, req StartRequest) error {
	c.mu.Lock()
	switch c.phase {
	case PhaseLoading:
		c.mu.Unlock()
		return ErrStartPending
	case PhaseActive, PhaseEnding:
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.phase = PhaseLoading
	c.errMsg = ""
	c.notifyLocked()
	c.mu.Unlock()

	s, err := c.backend.CreateSession(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseAbsent
		c.errMsg = err.Error()
		c.notifyLocked()
		return err
	}
	c.adoptLocked(s)
	return nil
}

// adoptLocked installs a session as active, mirrors it to the cache, and
// starts the shared clock. Caller holds c.mu.
func (c *Controller) adoptLocked(s *Session) {
	c.sess = s
	c.phase = PhaseActive
	c.saveCacheLocked()
	if c.tick == nil {
		c.tick = clock.NewEngine(c.tickInterval, c.notify)
	}
	c.tick.Start()
	c.notifyLocked()
}

func (c *Controller) saveCacheLocked() {
	if c.cache == nil || c.sess == nil {
		return
	}
	// Mirror write is best-effort: the in-memory state stays authoritative
	// for this process and the backend write happens at End.
	_ = c.cache.Save(c.sess)
}

// UpdateScore merges a partial score update into the active session. Pure
// local mutation: the backend sees the final score only at End. No-op when
// no session is active.
func (c *Controller) UpdateScore(u activity.ScoreUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseActive || c.sess == nil {
		return
	}
	c.sess.Score = c.sess.Score.Merge(u)
	c.saveCacheLocked()
	c.notifyLocked()
}

// UpdateDrill applies a progress write to the identified drill, clamping to
// [0,100] and honoring terminal completion. No-op for non-practice sessions,
// unknown ids, and completed drills.
func (c *Controller) UpdateDrill(id string, progress int, markComplete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseActive || c.sess == nil || len(c.sess.Drills) == 0 {
		return
	}
	if !practice.Apply(c.sess.Drills, id, progress, markComplete) {
		return
	}
	c.saveCacheLocked()
	c.notifyLocked()
}

// End sends the final state to the backend and, on success, clears the
// active session: every subscriber observes "no session" and the clock
// stops. On failure the session stays intact, the shared error is set, and
// End returns false so the caller can keep the user on the session screen.
func (c *Controller) End(ctx context.Context) bool {
	c.mu.Lock()
	if c.phase != PhaseActive || c.sess == nil {
		c.mu.Unlock()
		return false
	}
	c.phase = PhaseEnding
	c.errMsg = ""
	id := c.sess.ID
	req := EndRequest{Score: c.sess.Score, Drills: c.sess.Drills}
	c.notifyLocked()
	c.mu.Unlock()

	err := c.backend.EndSession(ctx, id, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseActive
		c.errMsg = err.Error()
		c.notifyLocked()
		return false
	}
	c.clearLocked()
	return true
}

// clearLocked tears down the active session. Caller holds c.mu.
func (c *Controller) clearLocked() {
	c.sess = nil
	c.phase = PhaseAbsent
	if c.tick != nil {
		c.tick.Stop()
	}
	if c.cache != nil {
		_ = c.cache.Delete()
	}
	c.notifyLocked()
}

// ClearError dismisses the shared error without other state changes. The
// error lives on the controller, so one dismissal clears it for every
// surface at once.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errMsg == "" {
		return
	}
	c.errMsg = ""
	c.notifyLocked()
}

// Rehydrate reloads controller state from the cache mirror without touching
// the backend. Used on command startup and by surfaces reacting to cache
// watcher events: a session written by another process is adopted, and a
// deleted cache (that process ended the session) clears this one. No-op
// while a start or end is in flight.
func (c *Controller) Rehydrate() error {
	if c.cache == nil {
		return ErrNoSession
	}
	s, err := c.cache.Load()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseLoading || c.phase == PhaseEnding {
		return nil
	}
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			if c.phase == PhaseActive {
				// Ended elsewhere; drop local state without a backend call.
				c.sess = nil
				c.phase = PhaseAbsent
				if c.tick != nil {
					c.tick.Stop()
				}
				c.notifyLocked()
			}
			return ErrNoSession
		}
		return err
	}
	c.sess = s
	if c.phase != PhaseActive {
		c.phase = PhaseActive
		if c.tick == nil {
			c.tick = clock.NewEngine(c.tickInterval, c.notify)
		}
		c.tick.Start()
	}
	c.notifyLocked()
	return nil
}

// Close stops the clock engine. Surfaces call this on teardown so no timer
// outlives its process.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tick != nil {
		c.tick.Stop()
	}
}
