package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/session"
	"github.com/matchday/courtside/internal/tui"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the floating session panel",
	Long: `Open the compact floating panel for the live session. The panel has
three view modes (minimized badge, collapsed bar, expanded controls); mode
changes are display-only and never touch the session itself. The panel
suppresses itself while a surface from the config's panel_hidden_on list
(by default the full view) is open.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if name, ok := session.ActiveSurface(); ok && slices.Contains(GetConfig().PanelHiddenOn, name) {
			cmd.Printf("panel hidden while '%s' is open\n", name)
			return nil
		}

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

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		cache, err := session.NewCache()
		if err != nil {
			return err
		}
		go func() {
			_ = session.WatchCache(watchCtx, cache, func() { _ = ctrl.Rehydrate() })
		}()

		return tui.RunPanel(ctrl)
	},
}

func init() {
	rootCmd.AddCommand(panelCmd)
}
