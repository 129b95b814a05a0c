package ux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiscoverConfigDirInWorkingDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	want := filepath.Join(tmpDir, ".ticketforge")
	if err := os.MkdirAll(want, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(tmpDir)

	got, err := DiscoverConfigDir()
	if err != nil {
		t.Fatalf("DiscoverConfigDir() error = %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != mustEvalSymlinks(t, want) {
		t.Errorf("DiscoverConfigDir() = %s, want %s", got, want)
	}
}

func TestDiscoverConfigDirInParentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	want := filepath.Join(tmpDir, ".ticketforge")
	if err := os.MkdirAll(want, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	t.Chdir(nested)

	got, err := DiscoverConfigDir()
	if err != nil {
		t.Fatalf("DiscoverConfigDir() error = %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != mustEvalSymlinks(t, want) {
		t.Errorf("DiscoverConfigDir() = %s, want %s", got, want)
	}
}

func TestDiscoverConfigDirMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	got, err := DiscoverConfigDir()
	if err != nil {
		t.Fatalf("DiscoverConfigDir() error = %v", err)
	}
	if !strings.HasSuffix(got, ".ticketforge") {
		t.Errorf("DiscoverConfigDir() should report the expected location, got %s", got)
	}
}

func TestDiscoverConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, ".ticketforge")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	configFile := filepath.Join(configDir, "ticketforge.yaml")
	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Chdir(tmpDir)

	got, err := DiscoverConfigFile("ticketforge.yaml")
	if err != nil {
		t.Fatalf("DiscoverConfigFile() error = %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != mustEvalSymlinks(t, configFile) {
		t.Errorf("DiscoverConfigFile() = %s, want %s", got, configFile)
	}
}

func TestDiscoverConfigFileMissingReportsExpectedLocation(t *testing.T) {
	t.Chdir(t.TempDir())

	got, err := DiscoverConfigFile("ticketforge.yaml")
	if err != nil {
		t.Fatalf("DiscoverConfigFile() error = %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join(".ticketforge", "ticketforge.yaml")) {
		t.Errorf("DiscoverConfigFile() should report the expected location, got %s", got)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	got, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("config dir was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureConfigDir() should create a directory")
	}
}

func mustEvalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("eval symlinks for %s: %v", path, err)
	}
	return resolved
}
