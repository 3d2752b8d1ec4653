// Package profile manages the user's persistent courtside profile.
// The profile is stored in the config directory and is created once via the
// interactive setup flow, then referenced on every command.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/config"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	Name             string `json:"name"`
	FavoriteActivity string `json:"favorite_activity"` // default picker selection
	ReportFormat     string `json:"report_format"`     // "markdown" | "json"
	ReportDir        string `json:"report_dir"`        // default report output dir
}

// profilePath returns the path to the profile file.
func profilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found — run 'courtside setup' to configure: %w", err)
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// RunSetup runs the interactive setup form and returns the resulting profile.
// If existing is non-nil, it pre-fills each field (edit mode).
func RunSetup(existing *Profile) (*Profile, error) {
	prof := &Profile{
		ReportFormat: "markdown",
		ReportDir:    ".",
	}
	if existing != nil {
		*prof = *existing
	}
	if prof.FavoriteActivity == "" {
		prof.FavoriteActivity = string(activity.TypePadel)
	}

	var activityOptions []huh.Option[string]
	for _, t := range activity.Types() {
		activityOptions = append(activityOptions, huh.NewOption(t.Icon()+" "+string(t), string(t)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your name").
				Description("Shown as the first player on new sessions").
				Value(&prof.Name),
			huh.NewSelect[string]().
				Title("Favorite activity").
				Description("Pre-selected when starting a session").
				Options(activityOptions...).
				Value(&prof.FavoriteActivity),
			huh.NewSelect[string]().
				Title("Report format").
				Options(
					huh.NewOption("Markdown", "markdown"),
					huh.NewOption("JSON", "json"),
				).
				Value(&prof.ReportFormat),
			huh.NewInput().
				Title("Report output directory").
				Value(&prof.ReportDir),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	if prof.ReportDir == "" {
		prof.ReportDir = "."
	}
	return prof, nil
}
