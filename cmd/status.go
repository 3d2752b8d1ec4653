package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current live session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		// Prefer the local mirror; fall back to the backend so a session
		// started elsewhere still shows up.
		if err := ctrl.Rehydrate(); err != nil {
			ctrl.FetchActive(cmd.Context())
		}

		snap := ctrl.Snapshot()
		if snap.Phase != session.PhaseActive {
			cmd.Println("no active session")
			return nil
		}

		s := snap.Session
		cmd.Printf("%s %s %s session\n", s.ActivityType.Icon(), s.ActivityType, s.MatchType)
		cmd.Printf("Elapsed: %s\n", snap.Elapsed)
		cmd.Printf("Score: %s\n", s.Score.Summary())
		if len(s.Players) > 0 {
			cmd.Printf("Players: %d\n", len(s.Players))
		}
		if len(s.Drills) > 0 {
			done, total := practice.Completion(s.Drills)
			cmd.Printf("Drills: %d/%d completed\n", done, total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
