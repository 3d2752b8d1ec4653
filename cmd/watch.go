package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/session"
	"github.com/matchday/courtside/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the full-screen live session view",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		defer ctrl.Close()
		ctx := cmd.Context()

		if err := ctrl.Rehydrate(); err != nil {
			ctrl.FetchActive(ctx)
		}
		if ctrl.Snapshot().Phase != session.PhaseActive {
			return fmt.Errorf("no active session — run 'courtside start' first")
		}

		// Mark the full view as open so the floating panel suppresses
		// itself instead of doubling up controls.
		release := session.ClaimSurface("watch")
		defer release()

		// React to cache writes from other processes (score/drill/end
		// commands, the panel) by reloading the mirror.
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		cache, err := session.NewCache()
		if err != nil {
			return err
		}
		go func() {
			_ = session.WatchCache(watchCtx, cache, func() { _ = ctrl.Rehydrate() })
		}()

		return tui.RunView(ctrl)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
