package activity

import "fmt"

// Clamp bounds for the score variants. Out-of-range writes are clamped,
// never rejected: the score is user-entered, not adversarial, and an error
// mid-game would interrupt play for no benefit.
const (
	MinStrokes = 1
	MaxStrokes = 200
	// GolfPar is the reference used for derived commentary ("+4", "even").
	GolfPar = 72

	MinPosition = 1
	MaxPosition = 999

	MaxSetScore = 7
	MaxSets     = 3
)

// SetScore is one entry of a set-based score sequence.
type SetScore struct {
	Mine int `json:"my"`
	Opp  int `json:"opp"`
}

// Score is the tagged score variant: Family names the active shape and only
// that shape's fields are meaningful. Exactly one variant is ever populated
// for a given session because Family is fixed by the activity type.
type Score struct {
	Family Family `json:"family"`

	// FamilyStrokes
	Strokes int `json:"strokes,omitempty"`

	// FamilyPosition
	Position int `json:"position,omitempty"`

	// FamilySets
	Sets []SetScore `json:"sets,omitempty"`

	// FamilyVersus
	Mine int `json:"mine,omitempty"`
	Opp  int `json:"opp,omitempty"`
}

// ScoreUpdate is a partial score mutation: nil fields are left untouched and
// fields that do not belong to the score's family are ignored. Sets, when
// non-nil, replaces the whole sequence (shallow merge of the top-level key).
type ScoreUpdate struct {
	Strokes  *int       `json:"strokes,omitempty"`
	Position *int       `json:"position,omitempty"`
	Sets     []SetScore `json:"sets,omitempty"`
	Mine     *int       `json:"mine,omitempty"`
	Opp      *int       `json:"opp,omitempty"`
}

// DefaultScore returns the initial score for an activity: par strokes for
// golf, first position for racing, one empty set for set-based sports, and
// a zeroed pair otherwise.
func DefaultScore(t Type) Score {
	switch f := t.ScoreFamily(); f {
	case FamilyStrokes:
		return Score{Family: f, Strokes: GolfPar}
	case FamilyPosition:
		return Score{Family: f, Position: MinPosition}
	case FamilySets:
		return Score{Family: f, Sets: []SetScore{{}}}
	default:
		return Score{Family: FamilyVersus}
	}
}

// Merge applies a partial update to the score, clamping every written value
// into its valid range. The switch is exhaustive over score families.
func (s Score) Merge(u ScoreUpdate) Score {
	switch s.Family {
	case FamilyStrokes:
		if u.Strokes != nil {
			s.Strokes = clamp(*u.Strokes, MinStrokes, MaxStrokes)
		}
	case FamilyPosition:
		if u.Position != nil {
			s.Position = clamp(*u.Position, MinPosition, MaxPosition)
		}
	case FamilySets:
		if u.Sets != nil {
			sets := u.Sets
			if len(sets) > MaxSets {
				sets = sets[:MaxSets]
			}
			clamped := make([]SetScore, len(sets))
			for i, set := range sets {
				clamped[i] = SetScore{
					Mine: clamp(set.Mine, 0, MaxSetScore),
					Opp:  clamp(set.Opp, 0, MaxSetScore),
				}
			}
			s.Sets = clamped
		}
	case FamilyVersus:
		if u.Mine != nil {
			s.Mine = clamp(*u.Mine, 0, int(^uint(0)>>1))
		}
		if u.Opp != nil {
			s.Opp = clamp(*u.Opp, 0, int(^uint(0)>>1))
		}
	}
	return s
}

// Summary renders the score as a short human-readable string.
func (s Score) Summary() string {
	switch s.Family {
	case FamilyStrokes:
		return fmt.Sprintf("%d strokes (%s)", s.Strokes, relativeToPar(s.Strokes))
	case FamilyPosition:
		return fmt.Sprintf("P%d", s.Position)
	case FamilySets:
		out := ""
		for i, set := range s.Sets {
			if i > 0 {
				out += "  "
			}
			out += fmt.Sprintf("%d-%d", set.Mine, set.Opp)
		}
		if out == "" {
			out = "0-0"
		}
		return out
	default:
		return fmt.Sprintf("%d : %d", s.Mine, s.Opp)
	}
}

// relativeToPar describes a stroke count against the par reference.
func relativeToPar(strokes int) string {
	switch d := strokes - GolfPar; {
	case d == 0:
		return "even"
	case d > 0:
		return fmt.Sprintf("+%d", d)
	default:
		return fmt.Sprintf("%d", d)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
