package ux

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathDefaults provides the conventional file locations the CLI works with
type PathDefaults struct {
	ConfigDir string
}

// NewPathDefaults creates a new PathDefaults with sensible defaults
func NewPathDefaults() *PathDefaults {
	return &PathDefaults{
		ConfigDir: ".ticketforge",
	}
}

// ConfigFile returns the default path to ticketforge.yaml
func (pd *PathDefaults) ConfigFile() string {
	return filepath.Join(pd.ConfigDir, "ticketforge.yaml")
}

// PlansDir returns the default directory planning documents are written to
func (pd *PathDefaults) PlansDir() string {
	return "plans"
}

// ResultFile returns the default path of the saved result for a plan prefix
func (pd *PathDefaults) ResultFile(prefix string) string {
	return filepath.Join(pd.PlansDir(), prefix+"-result.json")
}

// ValidateRequiredFile checks if a required file exists and provides a
// helpful error when it does not
func ValidateRequiredFile(path string, fileType string, creationCommand string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%s not found at: %s\n\nRun '%s' to create it", fileType, path, creationCommand)
	} else if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	return nil
}

// SuggestNextSteps provides contextual next steps based on what exists
func SuggestNextSteps() string {
	defaults := NewPathDefaults()

	_, hasConfig := os.Stat(defaults.ConfigFile())
	_, hasPlans := os.Stat(defaults.PlansDir())

	if os.IsNotExist(hasConfig) {
		return "Run 'ticketforge config init' to write a default configuration"
	}

	if os.IsNotExist(hasPlans) {
		return "Plan a specification with 'ticketforge plan run --spec <file>'"
	}

	return "Inspect a saved result with 'ticketforge plan show'"
}
