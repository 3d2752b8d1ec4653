// Package practice tracks the drill list of a practice session: per-drill
// progress, terminal completion, and overall completion accounting.
package practice

import (
	"strings"

	"github.com/google/uuid"
)

// Drill is a single trackable practice exercise. Config is set at session
// creation and immutable afterwards; Progress and Completed evolve during
// the session. Once Completed is true the drill ignores further progress
// writes — completion is terminal.
type Drill struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Config    map[string]string `json:"config,omitempty"`
	Progress  int               `json:"progress"`
	Completed bool              `json:"completed"`
}

// New creates a drill with a client-generated id.
func New(name string, config map[string]string) Drill {
	return Drill{
		ID:     uuid.New().String(),
		Name:   strings.TrimSpace(name),
		Config: config,
	}
}

// Apply updates the drill with the given id: progress is clamped to [0,100]
// and the drill is marked completed when markComplete is set or progress
// reaches 100. Returns false when nothing changed — unknown id, already
// completed drill, or a write that leaves the drill as-is.
func Apply(drills []Drill, id string, progress int, markComplete bool) bool {
	for i := range drills {
		d := &drills[i]
		if d.ID != id {
			continue
		}
		if d.Completed {
			return false
		}
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		changed := d.Progress != progress
		d.Progress = progress
		if markComplete || progress == 100 {
			d.Progress = 100
			d.Completed = true
			changed = true
		}
		return changed
	}
	return false
}

// NextIncomplete returns the first drill that is not yet completed, or nil
// when every drill is done.
func NextIncomplete(drills []Drill) *Drill {
	for i := range drills {
		if !drills[i].Completed {
			return &drills[i]
		}
	}
	return nil
}

// Completion returns how many drills are completed out of the total.
func Completion(drills []Drill) (done, total int) {
	for _, d := range drills {
		if d.Completed {
			done++
		}
	}
	return done, len(drills)
}

// AllComplete reports whether every drill is completed. An empty list is
// never "all complete" — there is nothing to have completed.
func AllComplete(drills []Drill) bool {
	if len(drills) == 0 {
		return false
	}
	done, total := Completion(drills)
	return done == total
}
