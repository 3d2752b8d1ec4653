package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/api"
	"github.com/matchday/courtside/internal/config"
	"github.com/matchday/courtside/internal/profile"
	"github.com/matchday/courtside/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "Track live sports sessions from your terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to courtside! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Environment override for the backend, useful for tests and CI.
		if url := os.Getenv("COURTSIDE_API_URL"); url != "" {
			cfg.BaseURL = url
		}

		// Profile values fill in config gaps.
		if activeProfile != nil {
			if cfg.ReportFormat == "" || cfg.ReportFormat == "markdown" {
				if activeProfile.ReportFormat != "" {
					cfg.ReportFormat = activeProfile.ReportFormat
				}
			}
			if cfg.ReportDir == "." && activeProfile.ReportDir != "" && activeProfile.ReportDir != "." {
				cfg.ReportDir = activeProfile.ReportDir
			}
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// backend builds the API client from the merged configuration.
func backend() *api.Client {
	var opts []api.Option
	if cfg.Token != "" {
		opts = append(opts, api.WithBearerToken(cfg.Token))
	}
	return api.New(cfg.BaseURL, opts...)
}

// newController wires a lifecycle controller to the backend and the local
// session cache. Every command shares this construction so all surfaces
// observe the same state.
func newController() (*session.Controller, error) {
	cache, err := session.NewCache()
	if err != nil {
		return nil, err
	}
	return session.NewController(backend(), session.WithCache(cache)), nil
}
