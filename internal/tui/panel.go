package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

// panelMode is the panel's own three-state view mode. It is pure display
// preference — switching modes never touches the underlying session.
type panelMode int

const (
	// panelCollapsed is the default compact bar: timer plus quick actions.
	panelCollapsed panelMode = iota
	// panelMinimized is a tiny badge showing only icon and elapsed time.
	panelMinimized
	// panelExpanded shows full scoring controls inline.
	panelExpanded
)

// PanelModel is the floating session panel shown alongside other work.
type PanelModel struct {
	ctrl    *session.Controller
	updates <-chan struct{}
	cancel  func()

	snap  session.Snapshot
	mode  panelMode
	width int
}

// NewPanel creates the floating panel bound to the shared controller.
func NewPanel(ctrl *session.Controller) PanelModel {
	ch, cancel := ctrl.Subscribe()
	return PanelModel{
		ctrl:    ctrl,
		updates: ch,
		cancel:  cancel,
		snap:    ctrl.Snapshot(),
	}
}

// Mode reports the current view mode; used by tests.
func (m PanelModel) Mode() int { return int(m.mode) }

func (m PanelModel) Init() tea.Cmd { return waitForChange(m.updates) }

func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snap = m.ctrl.Snapshot()
		if m.snap.Phase == session.PhaseAbsent {
			// Session gone: every surface disappears, panel included.
			m.cancel()
			return m, tea.Quit
		}
		return m, waitForChange(m.updates)

	case endResultMsg:
		m.snap = m.ctrl.Snapshot()
		if msg.ok {
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m PanelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cancel()
		return m, tea.Quit

	// The three modes are mutually exclusive: "m" toggles the badge,
	// tab/enter toggles full controls, each returning to the bar.
	case "m":
		if m.mode == panelMinimized {
			m.mode = panelCollapsed
		} else {
			m.mode = panelMinimized
		}
		return m, nil
	case "tab", "enter":
		if m.mode == panelExpanded {
			m.mode = panelCollapsed
		} else {
			m.mode = panelExpanded
		}
		return m, nil

	case "x":
		m.ctrl.ClearError()
		return m, nil

	case "e":
		if m.snap.Phase != session.PhaseActive {
			return m, nil
		}
		ctrl := m.ctrl
		return m, func() tea.Msg {
			return endResultMsg{ok: ctrl.End(context.Background())}
		}
	}

	// Scoring from the panel only in expanded mode, and never while the
	// end request is in flight.
	if m.mode != panelExpanded || m.snap.Phase != session.PhaseActive || m.snap.Session == nil {
		return m, nil
	}
	view := ViewModel{ctrl: m.ctrl, snap: m.snap}
	switch msg.String() {
	case "+", "=":
		m.ctrl.UpdateScore(view.adjustMine(1))
	case "-", "_":
		m.ctrl.UpdateScore(view.adjustMine(-1))
	case "]":
		m.ctrl.UpdateScore(view.adjustOpp(1))
	case "[":
		m.ctrl.UpdateScore(view.adjustOpp(-1))
	}
	return m, nil
}

func (m PanelModel) View() string {
	s := m.snap.Session
	if s == nil {
		return ""
	}

	switch m.mode {
	case panelMinimized:
		return panelBadgeStyle.Render(s.ActivityType.Icon()+" "+m.snap.Elapsed) + "\n"

	case panelExpanded:
		body := fmt.Sprintf("%s %s  %s\n%s",
			s.ActivityType.Icon(), s.ActivityType,
			timeStyle.Render(m.snap.Elapsed),
			scoreStyle.Render(s.Score.Summary()),
		)
		if len(s.Drills) > 0 {
			done, total := practice.Completion(s.Drills)
			body += dimStyle.Render(fmt.Sprintf("\ndrills %d/%d", done, total))
		}
		if m.snap.Err != "" {
			body += "\n" + errorStyle.Render("✗ "+m.snap.Err)
		}
		hint := "+/- score  [/] opp  e end  tab collapse  m minimize"
		if m.snap.Phase == session.PhaseEnding {
			hint = "ending…"
		}
		body += "\n" + hintStyle.Render(hint)
		return panelExpandedStyle.Render(body) + "\n"

	default: // panelCollapsed
		line := fmt.Sprintf("%s %s  %s  %s",
			s.ActivityType.Icon(),
			timeStyle.Render(m.snap.Elapsed),
			scoreStyle.Render(s.Score.Summary()),
			hintStyle.Render("tab expand  m minimize  e end"),
		)
		if m.snap.Err != "" {
			line = lipgloss.JoinVertical(lipgloss.Left, line, errorStyle.Render("✗ "+m.snap.Err+"  (x)"))
		}
		return panelBarStyle.Render(line) + "\n"
	}
}

// RunPanel starts the floating panel for the shared controller. No alt
// screen: the panel floats in the terminal alongside other output.
func RunPanel(ctrl *session.Controller) error {
	p := tea.NewProgram(NewPanel(ctrl))
	_, err := p.Run()
	return err
}
