package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatchCache watches the cache directory and invokes onChange whenever the
// session file is created, rewritten or removed, until ctx is cancelled.
// This is how a surface in another process observes mutations made by the
// rest of the tooling. Watcher errors are non-fatal; watching continues.
func WatchCache(ctx context.Context, c Cache, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: Save replaces the file via
	// os.Rename, which would orphan a watch on the file itself.
	if err := watcher.Add(c.Dir()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != "session.json" {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				onChange()
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// surfaceMarker records which full presentation surface is currently open,
// so the floating panel can suppress itself instead of rendering redundant
// controls next to the full view.
type surfaceMarker struct {
	Name string `json:"name"`
	PID  int    `json:"pid"`
}

func surfacePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "surface.json"), nil
}

// ClaimSurface marks the named surface as open and returns a release
// function. Claiming never fails the surface itself: on error the marker is
// simply absent and the panel will not suppress.
func ClaimSurface(name string) (release func()) {
	path, err := surfacePath()
	if err != nil {
		return func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return func() {}
	}
	data, err := json.Marshal(surfaceMarker{Name: name, PID: os.Getpid()})
	if err != nil {
		return func() {}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return func() {}
	}
	return func() { os.Remove(path) }
}

// ActiveSurface returns the name of the currently open surface, if any.
func ActiveSurface() (string, bool) {
	path, err := surfacePath()
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false
		}
		return "", false
	}
	var m surfaceMarker
	if err := json.Unmarshal(data, &m); err != nil {
		return "", false
	}
	if strings.TrimSpace(m.Name) == "" {
		return "", false
	}
	return m.Name, true
}
