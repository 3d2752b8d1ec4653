// Package report renders an ended session into a shareable artifact.
package report

import (
	"time"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

// Report is the immutable summary of a finished session.
type Report struct {
	SessionID    string             `json:"session_id"`
	ActivityType activity.Type      `json:"activity_type"`
	MatchType    activity.MatchType `json:"match_type"`
	Players      []string           `json:"players,omitempty"`
	StartedAt    time.Time          `json:"started_at"`
	EndedAt      time.Time          `json:"ended_at"`
	Duration     string             `json:"duration"`
	Score        activity.Score     `json:"score"`
	Drills       []practice.Drill   `json:"drills,omitempty"`
}

// FromSession builds a report from the session's final state.
func FromSession(s *session.Session, endedAt time.Time) *Report {
	return &Report{
		SessionID:    s.ID,
		ActivityType: s.ActivityType,
		MatchType:    s.MatchType,
		Players:      s.Players,
		StartedAt:    s.StartedAt,
		EndedAt:      endedAt,
		Duration:     endedAt.Sub(s.StartedAt).Round(time.Second).String(),
		Score:        s.Score,
		Drills:       s.Drills,
	}
}
