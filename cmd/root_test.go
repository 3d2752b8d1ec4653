package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

// executeCommand runs a cobra command with the given args and captures
// combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// testEnv isolates XDG state, starts a stub backend, and points the CLI at
// it via the environment override.
func testEnv(t *testing.T, handler http.Handler) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("COURTSIDE_API_URL", srv.URL)
}

// resetFlags clears the "changed" marker on a command's flags. Flag state is
// package-level and would otherwise leak between test runs.
func resetFlags(t *testing.T, cmds ...*cobra.Command) {
	t.Helper()
	for _, c := range cmds {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

// seedCachedSession writes a session into the local cache mirror, simulating
// one started by another command or process.
func seedCachedSession(t *testing.T, s *session.Session) {
	t.Helper()
	cache, err := session.NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if err := cache.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func cachedSession(t *testing.T) (*session.Session, error) {
	t.Helper()
	cache, err := session.NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache.Load()
}

func golfSession() *session.Session {
	return &session.Session{
		ID:           "s-golf",
		ActivityType: activity.TypeGolf,
		MatchType:    activity.MatchCasual,
		StartedAt:    time.Now().Add(-10 * time.Minute),
		Score:        activity.DefaultScore(activity.TypeGolf),
	}
}

func practiceSession() *session.Session {
	return &session.Session{
		ID:           "s-practice",
		ActivityType: activity.TypePadel,
		MatchType:    activity.MatchPractice,
		StartedAt:    time.Now().Add(-5 * time.Minute),
		Score:        activity.DefaultScore(activity.TypePadel),
		Drills: []practice.Drill{
			{ID: "d1", Name: "serves"},
			{ID: "d2", Name: "volleys"},
		},
	}
}

// noSessionHandler answers "no active session" for everything.
func noSessionHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
}
