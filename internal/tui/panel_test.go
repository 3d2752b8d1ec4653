package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/session"
)

// stubBackend satisfies session.Backend for surface tests; the backend is
// never exercised beyond adopting a create.
type stubBackend struct{}

func (stubBackend) ActiveSession(ctx context.Context) (*session.Session, error) {
	return nil, nil
}

func (stubBackend) CreateSession(ctx context.Context, req session.StartRequest) (*session.Session, error) {
	return &session.Session{
		ID:           "s-1",
		ActivityType: req.ActivityType,
		MatchType:    req.MatchType,
		Players:      req.Players,
		StartedAt:    time.Now(),
		Score:        activity.DefaultScore(req.ActivityType),
		Drills:       req.Drills,
	}, nil
}

func (stubBackend) EndSession(ctx context.Context, id string, req session.EndRequest) error {
	return nil
}

func activeController(t *testing.T, at activity.Type) *session.Controller {
	t.Helper()
	ctrl := session.NewController(stubBackend{}, session.WithTickInterval(time.Hour))
	t.Cleanup(ctrl.Close)
	if err := ctrl.Start(context.Background(), session.StartRequest{
		ActivityType: at,
		MatchType:    activity.MatchCasual,
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return ctrl
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func updatePanel(t *testing.T, m tea.Model, msg tea.Msg) PanelModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(PanelModel)
	if !ok {
		t.Fatalf("Update returned %T, want PanelModel", next)
	}
	return pm
}

// TestPanelModeTogglesAreDisplayOnly: cycling every panel mode leaves the
// session untouched.
func TestPanelModeTogglesAreDisplayOnly(t *testing.T) {
	ctrl := activeController(t, activity.TypePadel)
	before := ctrl.Snapshot()

	m := NewPanel(ctrl)
	if m.Mode() != int(panelCollapsed) {
		t.Fatalf("initial mode = %d, want collapsed", m.Mode())
	}

	m = updatePanel(t, m, keyRune('m'))
	if m.Mode() != int(panelMinimized) {
		t.Errorf("mode after m = %d, want minimized", m.Mode())
	}
	m = updatePanel(t, m, keyRune('m'))
	if m.Mode() != int(panelCollapsed) {
		t.Errorf("mode after m,m = %d, want collapsed", m.Mode())
	}

	m = updatePanel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != int(panelExpanded) {
		t.Errorf("mode after tab = %d, want expanded", m.Mode())
	}
	m = updatePanel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != int(panelCollapsed) {
		t.Errorf("mode after tab,tab = %d, want collapsed", m.Mode())
	}

	after := ctrl.Snapshot()
	if after.Phase != before.Phase {
		t.Errorf("phase changed by mode toggles: %s -> %s", before.Phase, after.Phase)
	}
	if after.Session.Score.Sets[0] != before.Session.Score.Sets[0] {
		t.Errorf("score changed by mode toggles: %+v -> %+v",
			before.Session.Score.Sets[0], after.Session.Score.Sets[0])
	}
}

// TestPanelScoringOnlyWhenExpanded: "+" is inert in the collapsed bar but
// scores in expanded mode.
func TestPanelScoringOnlyWhenExpanded(t *testing.T) {
	ctrl := activeController(t, activity.TypePadel)
	m := NewPanel(ctrl)

	m = updatePanel(t, m, keyRune('+'))
	if got := ctrl.Snapshot().Session.Score.Sets[0].Mine; got != 0 {
		t.Fatalf("collapsed panel scored: my = %d, want 0", got)
	}

	m = updatePanel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = updatePanel(t, m, keyRune('+'))
	m.snap = ctrl.Snapshot()
	if got := ctrl.Snapshot().Session.Score.Sets[0].Mine; got != 1 {
		t.Fatalf("expanded panel did not score: my = %d, want 1", got)
	}
	m = updatePanel(t, m, keyRune(']'))
	if got := ctrl.Snapshot().Session.Score.Sets[0].Opp; got != 1 {
		t.Fatalf("expanded panel did not score opponent: opp = %d, want 1", got)
	}
}

// TestPanelQuitsWhenSessionGone: a refresh observing the absent phase quits
// the panel.
func TestPanelQuitsWhenSessionGone(t *testing.T) {
	ctrl := activeController(t, activity.TypeGolf)
	m := NewPanel(ctrl)

	if !ctrl.End(context.Background()) {
		t.Fatal("End failed")
	}
	next, cmd := m.Update(refreshMsg{})
	if cmd == nil {
		t.Fatal("expected quit command after session ended")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %v, want tea.Quit", msg)
	}
	_ = next
}

// TestPanelRendersByMode sanity-checks each mode's frame.
func TestPanelRendersByMode(t *testing.T) {
	ctrl := activeController(t, activity.TypeRacing)
	m := NewPanel(ctrl)

	if m.View() == "" {
		t.Error("collapsed panel rendered empty")
	}
	m = updatePanel(t, m, keyRune('m'))
	if m.View() == "" {
		t.Error("minimized panel rendered empty")
	}
	m = updatePanel(t, m, keyRune('m'))
	m = updatePanel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.View() == "" {
		t.Error("expanded panel rendered empty")
	}
}

// TestViewAdjustersPerFamily covers the key-to-update mapping for each score
// family.
func TestViewAdjustersPerFamily(t *testing.T) {
	golf := ViewModel{snap: session.Snapshot{Session: &session.Session{
		Score: activity.DefaultScore(activity.TypeGolf),
	}}}
	if u := golf.adjustMine(1); u.Strokes == nil || *u.Strokes != activity.GolfPar+1 {
		t.Errorf("golf adjust = %+v, want strokes %d", u, activity.GolfPar+1)
	}

	racing := ViewModel{snap: session.Snapshot{Session: &session.Session{
		Score: activity.DefaultScore(activity.TypeRacing),
	}}}
	if u := racing.adjustMine(-1); u.Position == nil || *u.Position != 0 {
		t.Errorf("racing adjust = %+v, want position 0 (clamped later)", u)
	}

	padel := ViewModel{snap: session.Snapshot{Session: &session.Session{
		Score: activity.DefaultScore(activity.TypePadel),
	}}}
	if u := padel.adjustOpp(1); len(u.Sets) != 1 || u.Sets[0].Opp != 1 {
		t.Errorf("padel opp adjust = %+v, want last set opp 1", u)
	}

	darts := ViewModel{snap: session.Snapshot{Session: &session.Session{
		Score: activity.DefaultScore(activity.TypeDarts),
	}}}
	if u := darts.adjustMine(5); u.Mine == nil || *u.Mine != 5 {
		t.Errorf("darts adjust = %+v, want mine 5", u)
	}
}
