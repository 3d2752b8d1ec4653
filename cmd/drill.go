package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

var (
	drillProgress int
	drillComplete bool
	drillNext     bool
)

var drillCmd = &cobra.Command{
	Use:   "drill [drill-id|drill-name]",
	Short: "Track practice drill progress",
	Long: `Track practice drill progress. With no arguments, lists the drills
of the active practice session. Progress is clamped to 0-100 and a drill
marked complete stays complete.`,
	Args: cobra.MaximumNArgs(1),
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
		if len(snap.Session.Drills) == 0 {
			return fmt.Errorf("not a practice session")
		}

		if drillNext {
			next := practice.NextIncomplete(snap.Session.Drills)
			if next == nil {
				cmd.Println("all drills complete — end the session whenever you're ready")
				return nil
			}
			cmd.Printf("next: %s (%d%%)  id=%s\n", next.Name, next.Progress, next.ID)
			return nil
		}

		if len(args) == 0 {
			printDrills(cmd, snap.Session.Drills)
			return nil
		}

		target := findDrill(snap.Session.Drills, args[0])
		if target == nil {
			return fmt.Errorf("no drill matching %q", args[0])
		}
		if target.Completed {
			cmd.Printf("%s is already complete\n", target.Name)
			return nil
		}

		progress := target.Progress
		if cmd.Flags().Changed("progress") {
			progress = drillProgress
		}
		ctrl.UpdateDrill(target.ID, progress, drillComplete)

		snap = ctrl.Snapshot()
		printDrills(cmd, snap.Session.Drills)
		return nil
	},
}

// findDrill matches by id first, then by exact name.
func findDrill(drills []practice.Drill, key string) *practice.Drill {
	for i := range drills {
		if drills[i].ID == key {
			return &drills[i]
		}
	}
	for i := range drills {
		if drills[i].Name == key {
			return &drills[i]
		}
	}
	return nil
}

func printDrills(cmd *cobra.Command, drills []practice.Drill) {
	done, total := practice.Completion(drills)
	cmd.Printf("Drills: %d/%d completed\n", done, total)
	for _, d := range drills {
		mark := " "
		if d.Completed {
			mark = "x"
		}
		cmd.Printf("  [%s] %-24s %3d%%  id=%s\n", mark, d.Name, d.Progress, d.ID)
	}
}

func init() {
	drillCmd.Flags().IntVar(&drillProgress, "progress", 0, "Progress percentage, clamped to 0-100")
	drillCmd.Flags().BoolVar(&drillComplete, "complete", false, "Mark the drill complete")
	drillCmd.Flags().BoolVar(&drillNext, "next", false, "Show the next incomplete drill")
	rootCmd.AddCommand(drillCmd)
}
