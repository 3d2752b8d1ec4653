package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExistsBeforeAndAfterSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if Exists() {
		t.Fatal("Exists() = true before any save")
	}

	prof := &Profile{
		Name:             "ana",
		FavoriteActivity: "padel",
		ReportFormat:     "json",
		ReportDir:        "/tmp/reports",
	}
	if err := Save(prof); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *prof {
		t.Errorf("loaded profile = %+v, want %+v", got, prof)
	}
}

func TestLoadMissingProfile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing profile")
	}
}

func TestLoadMalformedProfile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "courtside")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a malformed profile")
	}
}
