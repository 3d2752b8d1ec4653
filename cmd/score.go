package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/session"
)

var (
	scoreStrokes  int
	scorePosition int
	scoreMine     int
	scoreOpp      int
	scoreSets     []string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Update the active session's score",
	Long: `Update the active session's score. This is a local mutation: the
backend only sees the final score when the session ends.

Flags apply to the score shape of the session's activity:
  golf            --strokes
  racing          --position
  padel/tennis    --set MY-OPP (repeatable, in set order)
  darts/pool/...  --my and/or --opp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if err := ctrl.Rehydrate(); err != nil {
			return fmt.Errorf("no active session")
		}
		snap := ctrl.Snapshot()
		if snap.Phase != session.PhaseActive {
			return fmt.Errorf("no active session")
		}

		update, err := buildScoreUpdate(cmd, snap.Session.Score.Family)
		if err != nil {
			return err
		}

		ctrl.UpdateScore(update)
		cmd.Printf("Score: %s\n", ctrl.Snapshot().Session.Score.Summary())
		return nil
	},
}

// buildScoreUpdate converts the flags the user actually set into a partial
// update, rejecting flags that don't belong to the session's score family.
func buildScoreUpdate(cmd *cobra.Command, family activity.Family) (activity.ScoreUpdate, error) {
	var u activity.ScoreUpdate
	set := cmd.Flags().Changed

	switch family {
	case activity.FamilyStrokes:
		if !set("strokes") {
			return u, fmt.Errorf("this session scores strokes; use --strokes")
		}
		u.Strokes = &scoreStrokes
	case activity.FamilyPosition:
		if !set("position") {
			return u, fmt.Errorf("this session scores a finishing position; use --position")
		}
		u.Position = &scorePosition
	case activity.FamilySets:
		if !set("set") {
			return u, fmt.Errorf("this session scores sets; use --set MY-OPP")
		}
		sets, err := parseSets(scoreSets)
		if err != nil {
			return u, err
		}
		u.Sets = sets
	default:
		if !set("my") && !set("opp") {
			return u, fmt.Errorf("use --my and/or --opp for this session")
		}
		if set("my") {
			u.Mine = &scoreMine
		}
		if set("opp") {
			u.Opp = &scoreOpp
		}
	}
	return u, nil
}

// parseSets parses repeated "MY-OPP" pairs, e.g. --set 6-4 --set 3-6.
func parseSets(specs []string) ([]activity.SetScore, error) {
	sets := make([]activity.SetScore, 0, len(specs))
	for _, spec := range specs {
		mine, opp, ok := strings.Cut(spec, "-")
		if !ok {
			return nil, fmt.Errorf("invalid set %q, expected MY-OPP", spec)
		}
		m, err := strconv.Atoi(strings.TrimSpace(mine))
		if err != nil {
			return nil, fmt.Errorf("invalid set %q: %w", spec, err)
		}
		o, err := strconv.Atoi(strings.TrimSpace(opp))
		if err != nil {
			return nil, fmt.Errorf("invalid set %q: %w", spec, err)
		}
		sets = append(sets, activity.SetScore{Mine: m, Opp: o})
	}
	return sets, nil
}

func init() {
	scoreCmd.Flags().IntVar(&scoreStrokes, "strokes", 0, "Total stroke count (golf)")
	scoreCmd.Flags().IntVar(&scorePosition, "position", 0, "Current finishing position (racing)")
	scoreCmd.Flags().IntVar(&scoreMine, "my", 0, "Your score")
	scoreCmd.Flags().IntVar(&scoreOpp, "opp", 0, "Opponent score")
	scoreCmd.Flags().StringSliceVar(&scoreSets, "set", nil, "Set score as MY-OPP, repeatable in order")
	rootCmd.AddCommand(scoreCmd)
}
