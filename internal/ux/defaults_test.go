package ux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathDefaults(t *testing.T) {
	defaults := NewPathDefaults()

	if defaults.ConfigDir != ".ticketforge" {
		t.Errorf("ConfigDir = %s, want .ticketforge", defaults.ConfigDir)
	}
	if got := defaults.ConfigFile(); got != filepath.Join(".ticketforge", "ticketforge.yaml") {
		t.Errorf("ConfigFile() = %s", got)
	}
	if got := defaults.PlansDir(); got != "plans" {
		t.Errorf("PlansDir() = %s, want plans", got)
	}
	if got := defaults.ResultFile("CC"); got != filepath.Join("plans", "CC-result.json") {
		t.Errorf("ResultFile() = %s", got)
	}
}

func TestValidateRequiredFile(t *testing.T) {
	tmpDir := t.TempDir()

	existing := filepath.Join(tmpDir, "spec.md")
	if err := os.WriteFile(existing, []byte("# Spec"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := ValidateRequiredFile(existing, "Spec file", "ticketforge plan run"); err != nil {
		t.Errorf("existing file should validate, got %v", err)
	}

	missing := filepath.Join(tmpDir, "absent.md")
	err := ValidateRequiredFile(missing, "Spec file", "ticketforge plan run")
	if err == nil {
		t.Fatal("missing file should fail validation")
	}
	if !strings.Contains(err.Error(), "Spec file not found") {
		t.Errorf("error should name the file type: %v", err)
	}
	if !strings.Contains(err.Error(), "ticketforge plan run") {
		t.Errorf("error should name the creation command: %v", err)
	}
}

func TestSuggestNextSteps(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	if got := SuggestNextSteps(); !strings.Contains(got, "config init") {
		t.Errorf("with nothing set up, suggestion = %q, want config init", got)
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, ".ticketforge"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".ticketforge", "ticketforge.yaml"), []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if got := SuggestNextSteps(); !strings.Contains(got, "plan run") {
		t.Errorf("with config present, suggestion = %q, want plan run", got)
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, "plans"), 0o755); err != nil {
		t.Fatalf("mkdir plans: %v", err)
	}

	if got := SuggestNextSteps(); !strings.Contains(got, "plan show") {
		t.Errorf("with plans present, suggestion = %q, want plan show", got)
	}
}
