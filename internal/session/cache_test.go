package session_test

import (
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

func newDiskCache(t *testing.T) session.Cache {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	c, err := session.NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return c
}

// TestCacheLoadMissing returns ErrNoSession before anything was saved.
func TestCacheLoadMissing(t *testing.T) {
	c := newDiskCache(t)
	if _, err := c.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("Load on empty cache: %v, want ErrNoSession", err)
	}
}

// TestCacheRoundTrip saves a session and reads back an equal copy.
func TestCacheRoundTrip(t *testing.T) {
	c := newDiskCache(t)

	want := &session.Session{
		ID:           "s-42",
		ActivityType: activity.TypePadel,
		MatchType:    activity.MatchPractice,
		Players:      []string{"ana", "leo"},
		StartedAt:    time.Now().Truncate(time.Second),
		Score: activity.Score{
			Family: activity.FamilySets,
			Sets:   []activity.SetScore{{Mine: 6, Opp: 4}, {Mine: 2, Opp: 2}},
		},
		Drills: []practice.Drill{
			{ID: "d1", Name: "serves", Progress: 100, Completed: true},
			{ID: "d2", Name: "volleys", Progress: 30},
		},
	}
	if err := c.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || got.ActivityType != want.ActivityType {
		t.Errorf("identity lost: %+v", got)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	if len(got.Score.Sets) != 2 || got.Score.Sets[0] != want.Score.Sets[0] {
		t.Errorf("score lost: %+v", got.Score)
	}
	if len(got.Drills) != 2 || !got.Drills[0].Completed || got.Drills[1].Progress != 30 {
		t.Errorf("drills lost: %+v", got.Drills)
	}
}

// Property: any session survives a save/load cycle with score and drill
// state intact.
func TestCacheRoundTripProperty(t *testing.T) {
	c := newDiskCache(t)

	rapid.Check(t, func(t *rapid.T) {
		types := activity.Types()
		at := types[rapid.IntRange(0, len(types)-1).Draw(t, "activity")]
		s := &session.Session{
			ID:           rapid.StringMatching(`[a-z0-9]{4,12}`).Draw(t, "id"),
			ActivityType: at,
			MatchType:    activity.MatchCasual,
			Players:      rapid.SliceOfN(rapid.StringMatching(`[a-z]{2,8}`), 0, 4).Draw(t, "players"),
			StartedAt:    time.Unix(rapid.Int64Range(0, 2_000_000_000).Draw(t, "started"), 0).UTC(),
			Score:        activity.DefaultScore(at),
		}
		if err := c.Save(s); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := c.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.ID != s.ID || !got.StartedAt.Equal(s.StartedAt) || got.Score.Family != s.Score.Family {
			t.Fatalf("round trip mismatch: saved %+v, loaded %+v", s, got)
		}
	})
}

// TestCacheDelete removes the file and is a no-op when already gone.
func TestCacheDelete(t *testing.T) {
	c := newDiskCache(t)

	if err := c.Delete(); err != nil {
		t.Fatalf("Delete on empty cache: %v", err)
	}

	s := &session.Session{ID: "s-1", ActivityType: activity.TypeGolf, StartedAt: time.Now()}
	if err := c.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("Load after delete: %v, want ErrNoSession", err)
	}
}

// TestCacheOverwrite: the latest save wins.
func TestCacheOverwrite(t *testing.T) {
	c := newDiskCache(t)

	first := &session.Session{ID: "old", ActivityType: activity.TypeGolf, StartedAt: time.Now()}
	second := &session.Session{ID: "new", ActivityType: activity.TypeRacing, StartedAt: time.Now()}
	if err := c.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != "new" || got.ActivityType != activity.TypeRacing {
		t.Errorf("stale session loaded: %+v", got)
	}
}

// TestSurfaceMarker covers claim, read and release of the surface marker.
func TestSurfaceMarker(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if name, ok := session.ActiveSurface(); ok {
		t.Fatalf("surface %q active before any claim", name)
	}

	release := session.ClaimSurface("watch")
	name, ok := session.ActiveSurface()
	if !ok || name != "watch" {
		t.Fatalf("ActiveSurface = %q, %v; want watch, true", name, ok)
	}

	release()
	if name, ok := session.ActiveSurface(); ok {
		t.Fatalf("surface %q still active after release", name)
	}
}
