package cmd

import (
	"strings"
	"testing"
)

func resetDrillFlags(t *testing.T) {
	t.Helper()
	resetFlags(t, drillCmd)
	drillProgress, drillComplete, drillNext = 0, false, false
}

// TestDrillList prints the drill queue of the active practice session.
func TestDrillList(t *testing.T) {
	testEnv(t, noSessionHandler())
	seedCachedSession(t, practiceSession())
	resetDrillFlags(t)

	out, err := executeCommand(rootCmd, "drill")
	if err != nil {
		t.Fatalf("drill: %v", err)
	}
	for _, want := range []string{"Drills: 0/2 completed", "serves", "volleys"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in: %q", want, out)
		}
	}
}

// TestDrillProgressByName updates a drill addressed by name and persists it.
func TestDrillProgressByName(t *testing.T) {
	testEnv(t, noSessionHandler())
	seedCachedSession(t, practiceSession())
	resetDrillFlags(t)

	out, err := executeCommand(rootCmd, "drill", "serves", "--progress", "40")
	if err != nil {
		t.Fatalf("drill: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, " 40%") {
		t.Errorf("expected updated progress, got: %q", out)
	}

	cached, err := cachedSession(t)
	if err != nil {
		t.Fatalf("cache after drill: %v", err)
	}
	if cached.Drills[0].Progress != 40 {
		t.Errorf("cached progress = %d, want 40", cached.Drills[0].Progress)
	}
}

// TestDrillComplete marks a drill done and keeps it done.
func TestDrillComplete(t *testing.T) {
	testEnv(t, noSessionHandler())
	s := practiceSession()
	seedCachedSession(t, s)
	resetDrillFlags(t)

	out, err := executeCommand(rootCmd, "drill", "d1", "--complete")
	if err != nil {
		t.Fatalf("drill --complete: %v", err)
	}
	if !strings.Contains(out, "Drills: 1/2 completed") {
		t.Errorf("expected completion count, got: %q", out)
	}

	// A second write against the completed drill is refused.
	resetDrillFlags(t)
	out, err = executeCommand(rootCmd, "drill", "d1", "--progress", "10")
	if err != nil {
		t.Fatalf("drill after complete: %v", err)
	}
	if !strings.Contains(out, "already complete") {
		t.Errorf("expected the already-complete notice, got: %q", out)
	}
	cached, err := cachedSession(t)
	if err != nil {
		t.Fatal(err)
	}
	if cached.Drills[0].Progress != 100 || !cached.Drills[0].Completed {
		t.Errorf("completed drill mutated: %+v", cached.Drills[0])
	}
}

// TestDrillNext points at the first incomplete drill.
func TestDrillNext(t *testing.T) {
	testEnv(t, noSessionHandler())
	s := practiceSession()
	s.Drills[0].Progress = 100
	s.Drills[0].Completed = true
	seedCachedSession(t, s)
	resetDrillFlags(t)

	out, err := executeCommand(rootCmd, "drill", "--next")
	if err != nil {
		t.Fatalf("drill --next: %v", err)
	}
	if !strings.Contains(out, "next: volleys") {
		t.Errorf("expected volleys next, got: %q", out)
	}
}

// TestDrillOutsidePractice: drill tracking only exists in practice sessions.
func TestDrillOutsidePractice(t *testing.T) {
	testEnv(t, noSessionHandler())
	seedCachedSession(t, golfSession())
	resetDrillFlags(t)

	_, err := executeCommand(rootCmd, "drill")
	if err == nil || !strings.Contains(err.Error(), "not a practice session") {
		t.Fatalf("expected practice-only error, got: %v", err)
	}
}

// TestDrillUnknown reports a missing drill.
func TestDrillUnknown(t *testing.T) {
	testEnv(t, noSessionHandler())
	seedCachedSession(t, practiceSession())
	resetDrillFlags(t)

	_, err := executeCommand(rootCmd, "drill", "smashes", "--progress", "10")
	if err == nil || !strings.Contains(err.Error(), `no drill matching "smashes"`) {
		t.Fatalf("expected unknown-drill error, got: %v", err)
	}
}
