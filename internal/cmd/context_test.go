package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

// newFlaggedCommand builds a command carrying the persistent flags the
// root command defines, without touching the real root command.
func newFlaggedCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("format", "text", "")
	cmd.Flags().Bool("no-color", false, "")
	cmd.Flags().BoolP("verbose", "v", false, "")
	cmd.Flags().Bool("quiet", false, "")
	return cmd
}

func TestNewCommandContextDefaults(t *testing.T) {
	cmdCtx, err := NewCommandContext(newFlaggedCommand())
	if err != nil {
		t.Fatalf("NewCommandContext() error = %v", err)
	}

	if cmdCtx.Format != "text" {
		t.Errorf("Format = %s, want text", cmdCtx.Format)
	}
	if cmdCtx.Verbose || cmdCtx.Quiet || cmdCtx.NoColor {
		t.Error("boolean flags should default to false")
	}
	if cmdCtx.ConfigPath != "" {
		t.Errorf("ConfigPath = %s, want empty", cmdCtx.ConfigPath)
	}
}

func TestNewCommandContextParsesFlags(t *testing.T) {
	cmd := newFlaggedCommand()
	if err := cmd.Flags().Parse([]string{"--format", "json", "--verbose", "--no-color", "--config", "custom.yaml"}); err != nil {
		t.Fatal(err)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		t.Fatalf("NewCommandContext() error = %v", err)
	}

	if cmdCtx.Format != "json" {
		t.Errorf("Format = %s, want json", cmdCtx.Format)
	}
	if !cmdCtx.Verbose {
		t.Error("Verbose should be true")
	}
	if !cmdCtx.NoColor {
		t.Error("NoColor should be true")
	}
	if cmdCtx.ConfigPath != "custom.yaml" {
		t.Errorf("ConfigPath = %s, want custom.yaml", cmdCtx.ConfigPath)
	}
}

func TestNewCommandContextMissingFlags(t *testing.T) {
	if _, err := NewCommandContext(&cobra.Command{Use: "bare"}); err == nil {
		t.Error("NewCommandContext() should fail when flags are not registered")
	}
}

func TestRootCommandStructure(t *testing.T) {
	wantSubcommands := []string{"plan", "config", "auth", "version"}
	for _, name := range wantSubcommands {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}

	if rootCmd.PersistentFlags().Lookup("format") == nil {
		t.Error("root command should define --format")
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("root command should define --config")
	}
}
