package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/api"
)

var (
	logActivity string
	logMatch    string
	logPlayers  []string
	logStrokes  int
	logPosition int
	logMine     int
	logOpp      int
	logSets     []string
)

// logCmd records a finished match directly, with no live session in
// between. It is deliberately decoupled from the session lifecycle: a
// failure here never touches an active session.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a completed match without live tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := activity.ParseType(logActivity)
		if err != nil {
			return err
		}
		mt := activity.MatchCasual
		if logMatch != "" {
			if mt, err = activity.ParseMatchType(logMatch); err != nil {
				return err
			}
		}

		score := activity.DefaultScore(at)
		update, err := buildLogUpdate(cmd, score.Family)
		if err != nil {
			return err
		}
		score = score.Merge(update)

		m := api.MatchLog{
			ActivityType: at,
			MatchType:    mt,
			Players:      resolvePlayers(logPlayers),
			Score:        score,
			PlayedAt:     time.Now(),
		}
		if err := backend().LogMatch(cmd.Context(), m); err != nil {
			return fmt.Errorf("logging match: %w", err)
		}

		cmd.Printf("Logged %s %s match: %s\n", at, mt, score.Summary())
		return nil
	},
}

// buildLogUpdate mirrors the score command's flag mapping for the one-shot
// log flow.
func buildLogUpdate(cmd *cobra.Command, family activity.Family) (activity.ScoreUpdate, error) {
	var u activity.ScoreUpdate
	set := cmd.Flags().Changed

	switch family {
	case activity.FamilyStrokes:
		if !set("strokes") {
			return u, fmt.Errorf("golf matches need --strokes")
		}
		u.Strokes = &logStrokes
	case activity.FamilyPosition:
		if !set("position") {
			return u, fmt.Errorf("racing matches need --position")
		}
		u.Position = &logPosition
	case activity.FamilySets:
		if !set("set") {
			return u, fmt.Errorf("set-based matches need --set MY-OPP")
		}
		sets, err := parseSets(logSets)
		if err != nil {
			return u, err
		}
		u.Sets = sets
	default:
		if !set("my") || !set("opp") {
			return u, fmt.Errorf("this match needs --my and --opp")
		}
		u.Mine = &logMine
		u.Opp = &logOpp
	}
	return u, nil
}

func init() {
	logCmd.Flags().StringVarP(&logActivity, "activity", "a", "", "Activity type (required)")
	logCmd.Flags().StringVarP(&logMatch, "match", "m", "", "Match type: casual, practice, competitive (default casual)")
	logCmd.Flags().StringSliceVarP(&logPlayers, "player", "p", nil, "Player name (repeatable)")
	logCmd.Flags().IntVar(&logStrokes, "strokes", 0, "Final stroke count (golf)")
	logCmd.Flags().IntVar(&logPosition, "position", 0, "Finishing position (racing)")
	logCmd.Flags().IntVar(&logMine, "my", 0, "Your final score")
	logCmd.Flags().IntVar(&logOpp, "opp", 0, "Opponent final score")
	logCmd.Flags().StringSliceVar(&logSets, "set", nil, "Set score as MY-OPP, repeatable in order")
	_ = logCmd.MarkFlagRequired("activity")
	rootCmd.AddCommand(logCmd)
}
