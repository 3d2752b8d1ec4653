package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/report"
	"github.com/matchday/courtside/internal/session"
)

var (
	endWriteReport bool
	endFormat      string
)

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End the live session and submit the final score",
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
		snap := ctrl.Snapshot()
		if snap.Phase != session.PhaseActive {
			return fmt.Errorf("no active session")
		}

		// Hold the final state for the report: End clears it on success.
		final := snap.Session
		endedAt := time.Now()

		if ok := ctrl.End(ctx); !ok {
			// The session stays intact so nothing is lost; retry any time.
			return fmt.Errorf("ending session failed: %s (session is still active, retry with 'courtside end')", ctrl.Snapshot().Err)
		}

		cmd.Printf("Session ended after %s. Final score: %s\n",
			endedAt.Sub(final.StartedAt).Round(time.Second), final.Score.Summary())

		if !endWriteReport {
			return nil
		}

		format := endFormat
		if format == "" {
			format = GetConfig().ReportFormat
		}
		var renderer report.Renderer
		ext := ".md"
		if format == "json" {
			renderer = &report.JSONRenderer{}
			ext = ".json"
		} else {
			renderer = &report.MarkdownRenderer{}
		}

		data, err := renderer.Render(report.FromSession(final, endedAt))
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		outputDir := GetConfig().ReportDir
		if outputDir == "" {
			outputDir = "."
		}
		outputPath := filepath.Join(outputDir, "courtside-"+endedAt.Format(time.RFC3339)+ext)
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("write report file: %w", err)
		}

		cmd.Printf("Report: %s\n", outputPath)
		return nil
	},
}

func init() {
	endCmd.Flags().BoolVar(&endWriteReport, "report", false, "Write a session report file")
	endCmd.Flags().StringVar(&endFormat, "format", "", "Report format: markdown or json (overrides config)")
	rootCmd.AddCommand(endCmd)
}
