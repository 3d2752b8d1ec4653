// Package activity defines the supported activity types, match types and
// the per-activity score shapes used by a live session.
package activity

import (
	"fmt"
	"strings"
)

// Type identifies the sport or game a session tracks.
type Type string

const (
	TypeRacing  Type = "racing"
	TypeGolf    Type = "golf"
	TypePadel   Type = "padel"
	TypeTennis  Type = "tennis"
	TypeEsports Type = "esports"
	TypeDarts   Type = "darts"
	TypePool    Type = "pool"
)

// Types lists every supported activity type, in picker display order.
func Types() []Type {
	return []Type{TypeRacing, TypeGolf, TypePadel, TypeTennis, TypeEsports, TypeDarts, TypePool}
}

// ParseType converts a user-entered string into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

// MatchType categorises a session: casual play, a practice drill set, or a
// competitive match. Immutable after session creation.
type MatchType string

const (
	MatchCasual      MatchType = "casual"
	MatchPractice    MatchType = "practice"
	MatchCompetitive MatchType = "competitive"
)

// MatchTypes lists every match type.
func MatchTypes() []MatchType {
	return []MatchType{MatchCasual, MatchPractice, MatchCompetitive}
}

// ParseMatchType converts a user-entered string into a MatchType.
func ParseMatchType(s string) (MatchType, error) {
	m := MatchType(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MatchCasual, MatchPractice, MatchCompetitive:
		return m, nil
	}
	return "", fmt.Errorf("unknown match type %q", s)
}

// Family selects which score variant an activity uses.
type Family string

const (
	// FamilyStrokes is a single stroke count against a par reference (golf).
	FamilyStrokes Family = "strokes"
	// FamilyPosition is a single finishing rank (racing).
	FamilyPosition Family = "position"
	// FamilySets is an ordered sequence of per-set score pairs (padel, tennis).
	FamilySets Family = "sets"
	// FamilyVersus is a generic two-party running score (darts, pool, esports).
	FamilyVersus Family = "versus"
)

// ScoreFamily maps an activity type to its score variant.
func (t Type) ScoreFamily() Family {
	switch t {
	case TypeGolf:
		return FamilyStrokes
	case TypeRacing:
		return FamilyPosition
	case TypePadel, TypeTennis:
		return FamilySets
	default:
		return FamilyVersus
	}
}

// Icon returns a single-rune badge for the activity, used by the TUI surfaces.
func (t Type) Icon() string {
	switch t {
	case TypeRacing:
		return "🏁"
	case TypeGolf:
		return "⛳"
	case TypePadel, TypeTennis:
		return "🎾"
	case TypeEsports:
		return "🎮"
	case TypeDarts:
		return "🎯"
	case TypePool:
		return "🎱"
	}
	return "🏅"
}
