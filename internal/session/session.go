// Package session owns the live session entity and its lifecycle: creating
// a session against the backend, rehydrating an existing one, mutating score
// and drill state, and ending it. The Controller is the single writer; every
// presentation surface reads snapshots and subscribes for change signals.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/practice"
)

// Session is the live, in-progress record of a single activity instance.
// ID is assigned by the backend on creation. Drills is present only for
// practice sessions; nil (not empty) otherwise.
type Session struct {
	ID           string             `json:"id"`
	ActivityType activity.Type      `json:"activity_type"`
	MatchType    activity.MatchType `json:"match_type"`
	Players      []string           `json:"players,omitempty"`
	StartedAt    time.Time          `json:"started_at"`
	Score        activity.Score     `json:"score"`
	Drills       []practice.Drill   `json:"drills,omitempty"`
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}

// Clone returns a deep copy safe to hand to readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Players != nil {
		out.Players = append([]string(nil), s.Players...)
	}
	if s.Score.Sets != nil {
		out.Score.Sets = append([]activity.SetScore(nil), s.Score.Sets...)
	}
	if s.Drills != nil {
		out.Drills = make([]practice.Drill, len(s.Drills))
		copy(out.Drills, s.Drills)
	}
	return &out
}

// StartRequest carries everything needed to create a session. Drills is set
// only when MatchType is practice.
type StartRequest struct {
	ActivityType activity.Type      `json:"activity_type"`
	MatchType    activity.MatchType `json:"match_type"`
	Players      []string           `json:"players,omitempty"`
	Drills       []practice.Drill   `json:"drills,omitempty"`
}

// EndRequest carries the final state sent when a session is finalized.
type EndRequest struct {
	Score  activity.Score   `json:"score"`
	Drills []practice.Drill `json:"drills,omitempty"`
}

// Backend is the remote service boundary the lifecycle depends on.
// ActiveSession returns (nil, nil) when no session exists.
type Backend interface {
	ActiveSession(ctx context.Context) (*Session, error)
	CreateSession(ctx context.Context, req StartRequest) (*Session, error)
	EndSession(ctx context.Context, id string, req EndRequest) error
}

// Sentinel errors for invalid lifecycle transitions.
var (
	// ErrNoSession is returned when an operation needs an active session
	// and none exists.
	ErrNoSession = errors.New("no active session")
	// ErrStartPending rejects a second start while one is in flight.
	ErrStartPending = errors.New("session start already in progress")
	// ErrSessionActive rejects starting over an existing session.
	ErrSessionActive = errors.New("session already in progress")
)
