package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable courtside settings.
type Config struct {
	BaseURL        string   `json:"base_url"`         // backend API base URL
	Token          string   `json:"token"`            // bearer token for the backend
	DefaultPlayers []string `json:"default_players"`  // pre-filled player list for new sessions
	ReportFormat   string   `json:"report_format"`    // "markdown" | "json"
	ReportDir      string   `json:"report_dir"`       // where end --report writes files
	PanelHiddenOn  []string `json:"panel_hidden_on"`  // surfaces that suppress the floating panel
}

// Defaults returns sensible default configuration values. The panel hides
// itself while the full session view is open so two sets of controls are
// never on screen for the same session.
func Defaults() Config {
	return Config{
		BaseURL:       "http://127.0.0.1:8080",
		ReportFormat:  "markdown",
		ReportDir:     ".",
		PanelHiddenOn: []string{"watch"},
	}
}

// LoadGlobal reads $XDG_CONFIG_HOME/courtside/config.json, falling back to
// ~/.config/courtside/config.json. Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json"), true)
}

// LoadProject reads .courtsiderc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".courtsiderc", false)
}

// Dir returns the courtside config directory.
func Dir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "courtside"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "courtside"), nil
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.BaseURL != "" {
			result.BaseURL = c.BaseURL
		}
		if c.Token != "" {
			result.Token = c.Token
		}
		if len(c.DefaultPlayers) > 0 {
			result.DefaultPlayers = c.DefaultPlayers
		}
		if c.ReportFormat != "" {
			result.ReportFormat = c.ReportFormat
		}
		if c.ReportDir != "" {
			result.ReportDir = c.ReportDir
		}
		if len(c.PanelHiddenOn) > 0 {
			result.PanelHiddenOn = c.PanelHiddenOn
		}
	}

	// Apply global values over defaults, then project values over global.
	apply(global)
	apply(project)

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
