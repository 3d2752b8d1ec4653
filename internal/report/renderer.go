package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matchday/courtside/internal/practice"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (j *JSONRenderer) Render(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MarkdownRenderer renders a Report as human-readable Markdown.
type MarkdownRenderer struct{}

func (m *MarkdownRenderer) Render(r *Report) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s %s — %s\n\n",
		title(string(r.ActivityType)),
		r.MatchType,
		r.EndedAt.Format("2006-01-02 15:04:05 MST"),
	)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Started: %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Duration: %s\n", r.Duration)
	fmt.Fprintf(&sb, "- Final score: %s\n", r.Score.Summary())
	if len(r.Players) > 0 {
		fmt.Fprintf(&sb, "- Players: %s\n", strings.Join(r.Players, ", "))
	}
	sb.WriteString("\n")

	if len(r.Drills) > 0 {
		done, total := practice.Completion(r.Drills)
		fmt.Fprintf(&sb, "## Drills (%d/%d completed)\n\n", done, total)
		sb.WriteString("| Drill | Progress | Completed |\n")
		sb.WriteString("|-------|----------|-----------|\n")
		for _, d := range r.Drills {
			mark := " "
			if d.Completed {
				mark = "x"
			}
			fmt.Fprintf(&sb, "| %s | %d%% | [%s] |\n", d.Name, d.Progress, mark)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// title uppercases the first letter of an activity name for the heading.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
