package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

// refreshMsg signals that controller state changed and the surface should
// re-read its snapshot. The controller's clock tick arrives the same way, so
// the elapsed time advances without a surface-local timer.
type refreshMsg struct{}

// endResultMsg carries the outcome of an end request issued from a surface.
type endResultMsg struct{ ok bool }

// waitForChange blocks on the subscription channel and converts each signal
// into a refreshMsg.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

// ViewModel is the full-page session view.
type ViewModel struct {
	ctrl    *session.Controller
	updates <-chan struct{}
	cancel  func()

	snap   session.Snapshot
	width  int
	height int
	ready  bool

	vp          viewport.Model
	bar         progress.Model
	drillCursor int
	expanded    map[int]bool
	confirmEnd  bool
}

// NewView creates the full session view bound to the shared controller.
func NewView(ctrl *session.Controller) ViewModel {
	ch, cancel := ctrl.Subscribe()
	return ViewModel{
		ctrl:     ctrl,
		updates:  ch,
		cancel:   cancel,
		snap:     ctrl.Snapshot(),
		bar:      progress.New(progress.WithDefaultGradient()),
		expanded: make(map[int]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m ViewModel) Init() tea.Cmd { return waitForChange(m.updates) }

func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snap = m.ctrl.Snapshot()
		if m.snap.Phase == session.PhaseAbsent {
			// Session ended (possibly from another surface); leave.
			m.cancel()
			return m, tea.Quit
		}
		m.rebuildViewport()
		return m, waitForChange(m.updates)

	case endResultMsg:
		m.snap = m.ctrl.Snapshot()
		if msg.ok {
			m.cancel()
			return m, tea.Quit
		}
		// End failed: session intact, error shown, user may retry.
		m.confirmEnd = false
		m.rebuildViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewport()
		return m, nil
	}
	return m, nil
}

func (m ViewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmEnd {
		switch msg.String() {
		case "y", "enter":
			m.confirmEnd = false
			if m.snap.Phase == session.PhaseEnding {
				return m, nil
			}
			ctrl := m.ctrl
			return m, func() tea.Msg {
				return endResultMsg{ok: ctrl.End(context.Background())}
			}
		default:
			m.confirmEnd = false
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		// Leaving the view does not end the session.
		m.cancel()
		return m, tea.Quit
	case "e":
		if m.snap.Phase == session.PhaseActive {
			m.confirmEnd = true
		}
		return m, nil
	case "x":
		m.ctrl.ClearError()
		return m, nil
	}

	// Mutating controls are disabled while the end request is in flight.
	if m.snap.Phase != session.PhaseActive || m.snap.Session == nil {
		return m, nil
	}

	switch msg.String() {
	case "+", "=":
		m.ctrl.UpdateScore(m.adjustMine(1))
	case "-", "_":
		m.ctrl.UpdateScore(m.adjustMine(-1))
	case "]":
		m.ctrl.UpdateScore(m.adjustOpp(1))
	case "[":
		m.ctrl.UpdateScore(m.adjustOpp(-1))
	case "a":
		m.addSet()

	case "up", "k":
		if m.drillCursor > 0 {
			m.drillCursor--
			m.rebuildViewport()
		}
	case "down", "j":
		if m.drillCursor < len(m.snap.Session.Drills)-1 {
			m.drillCursor++
			m.rebuildViewport()
		}
	case "enter", " ":
		// Browsing drill detail is UI-local and mutates nothing.
		if len(m.snap.Session.Drills) > 0 {
			if m.expanded[m.drillCursor] {
				delete(m.expanded, m.drillCursor)
			} else {
				m.expanded[m.drillCursor] = true
			}
			m.rebuildViewport()
		}
	case "right", "l":
		m.bumpDrill(10)
	case "left", "h":
		m.bumpDrill(-10)
	case "c":
		if d := m.cursorDrill(); d != nil {
			m.ctrl.UpdateDrill(d.ID, 100, true)
		}
	case "g":
		if next := practice.NextIncomplete(m.snap.Session.Drills); next != nil {
			for i := range m.snap.Session.Drills {
				if m.snap.Session.Drills[i].ID == next.ID {
					m.drillCursor = i
					break
				}
			}
			m.rebuildViewport()
		}

	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// adjustMine builds the partial update for the "+"/"-" keys, which always
// target the user's own value regardless of score family.
func (m ViewModel) adjustMine(delta int) activity.ScoreUpdate {
	score := m.snap.Session.Score
	switch score.Family {
	case activity.FamilyStrokes:
		v := score.Strokes + delta
		return activity.ScoreUpdate{Strokes: &v}
	case activity.FamilyPosition:
		v := score.Position + delta
		return activity.ScoreUpdate{Position: &v}
	case activity.FamilySets:
		sets := append([]activity.SetScore(nil), score.Sets...)
		if len(sets) == 0 {
			sets = []activity.SetScore{{}}
		}
		sets[len(sets)-1].Mine += delta
		return activity.ScoreUpdate{Sets: sets}
	default:
		v := score.Mine + delta
		return activity.ScoreUpdate{Mine: &v}
	}
}

// adjustOpp targets the opponent value; meaningless for strokes/position
// and ignored there by Merge's family switch.
func (m ViewModel) adjustOpp(delta int) activity.ScoreUpdate {
	score := m.snap.Session.Score
	switch score.Family {
	case activity.FamilySets:
		sets := append([]activity.SetScore(nil), score.Sets...)
		if len(sets) == 0 {
			sets = []activity.SetScore{{}}
		}
		sets[len(sets)-1].Opp += delta
		return activity.ScoreUpdate{Sets: sets}
	default:
		v := score.Opp + delta
		return activity.ScoreUpdate{Opp: &v}
	}
}

func (m *ViewModel) addSet() {
	score := m.snap.Session.Score
	if score.Family != activity.FamilySets || len(score.Sets) >= activity.MaxSets {
		return
	}
	sets := append(append([]activity.SetScore(nil), score.Sets...), activity.SetScore{})
	m.ctrl.UpdateScore(activity.ScoreUpdate{Sets: sets})
}

func (m *ViewModel) bumpDrill(delta int) {
	if d := m.cursorDrill(); d != nil {
		m.ctrl.UpdateDrill(d.ID, d.Progress+delta, false)
	}
}

func (m *ViewModel) cursorDrill() *practice.Drill {
	drills := m.snap.Session.Drills
	if m.drillCursor < 0 || m.drillCursor >= len(drills) {
		return nil
	}
	return &drills[m.drillCursor]
}

// ── Rendering ─────────────────────────────────────────────────────────────────

func (m ViewModel) View() string {
	if !m.ready {
		return "Loading…"
	}
	s := m.snap.Session
	if s == nil {
		return dimStyle.Render("  no active session") + "\n"
	}

	title := titleStyle.Width(m.width).Render(fmt.Sprintf(
		"  %s %s %s session  %s",
		s.ActivityType.Icon(), s.ActivityType, s.MatchType,
		timeStyle.Render(m.snap.Elapsed),
	))

	var rows []string
	rows = append(rows, title)

	if m.snap.Err != "" {
		rows = append(rows, errorStyle.Width(m.width).Render("✗ "+m.snap.Err+"  (x to dismiss)"))
	}

	rows = append(rows, m.vp.View())

	hint := "  +/- score  [/] opponent  e end  q leave  x dismiss error"
	if s.Score.Family == activity.FamilySets {
		hint = "  +/- my  [/] opp  a new set  e end  q leave"
	}
	if len(s.Drills) > 0 {
		hint += "  ↑/↓ drill  ←/→ progress  c complete  g next"
	}
	if m.confirmEnd {
		hint = "  end session and submit final score? y/n"
	}
	if m.snap.Phase == session.PhaseEnding {
		hint = "  ending session…"
	}
	rows = append(rows, statusBarStyle.Width(m.width).Render(hint))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *ViewModel) initViewport() {
	// title(1) + statusBar(1) = 2 fixed rows, 3 when the error bar shows
	vpHeight := m.height - 2
	if m.snap.Err != "" {
		vpHeight--
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.vp = viewport.New(m.width, vpHeight)
	m.bar.Width = m.width - 24
	m.rebuildViewport()
}

func (m *ViewModel) rebuildViewport() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderBody())
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *ViewModel) renderBody() string {
	s := m.snap.Session
	var sb strings.Builder

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s", label)) + "  " + value + "\n")
	}

	sb.WriteString(heading("Score"))
	sb.WriteString("  " + scoreStyle.Render(s.Score.Summary()) + "\n")

	sb.WriteString(heading("Session"))
	row("Elapsed:", m.snap.Elapsed)
	row("Started:", s.StartedAt.Format("15:04:05"))
	if len(s.Players) > 0 {
		row("Players:", strings.Join(s.Players, ", "))
	}

	if len(s.Drills) > 0 {
		done, total := practice.Completion(s.Drills)
		sb.WriteString(heading(fmt.Sprintf("Drills (%d/%d)", done, total)))
		if practice.AllComplete(s.Drills) {
			sb.WriteString(completedStyle.Render("  all drills complete — keep going or end the session") + "\n\n")
		}
		for i, d := range s.Drills {
			sb.WriteString(m.renderDrill(i, d))
		}
	}
	return sb.String()
}

func (m *ViewModel) renderDrill(i int, d practice.Drill) string {
	toggle := dimStyle.Render("  ▶ ")
	if m.expanded[i] {
		toggle = dimStyle.Render("  ▼ ")
	}

	status := fmt.Sprintf("%3d%%", d.Progress)
	if d.Completed {
		status = completedStyle.Render("done")
	}

	row := fmt.Sprintf("%s%-24s %s  %s", toggle, d.Name, status, m.bar.ViewAs(float64(d.Progress)/100))
	if i == m.drillCursor {
		// Pad to width so the highlight fills the line
		row = selectedRowStyle.Width(m.width - 2).Render(row)
	}
	out := row + "\n"

	if m.expanded[i] && len(d.Config) > 0 {
		for k, v := range d.Config {
			out += dimStyle.Render(fmt.Sprintf("       %s = %s", k, v)) + "\n"
		}
	}
	return out + "\n"
}

// RunView starts the full-page session view for the shared controller.
func RunView(ctrl *session.Controller) error {
	p := tea.NewProgram(NewView(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
