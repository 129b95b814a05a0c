package ux

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DiscoverConfigDir searches for a .ticketforge directory.
// Priority: current dir, parent dirs, git root, home dir.
func DiscoverConfigDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up from the working directory
	dir := cwd
	for {
		candidate := filepath.Join(dir, ".ticketforge")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Try git root explicitly in case the walk started outside the repo
	if gitRoot, err := gitTopLevel(); err == nil {
		candidate := filepath.Join(gitRoot, ".ticketforge")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(homeDir, ".ticketforge")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// Nothing found. Report the expected location so callers can create it.
	return filepath.Join(cwd, ".ticketforge"), nil
}

// DiscoverConfigFile searches for a config file, checking the discovered
// .ticketforge directory, the working directory, and the home directory.
func DiscoverConfigFile(filename string) (string, error) {
	configDir, err := DiscoverConfigDir()
	if err == nil {
		candidate := filepath.Join(configDir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(cwd, filename)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(homeDir, ".ticketforge", filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// Not found. Return the expected location in the config directory.
	if configDir != "" {
		return filepath.Join(configDir, filename), nil
	}
	return filepath.Join(cwd, ".ticketforge", filename), nil
}

// EnsureConfigDir ensures the .ticketforge directory exists
func EnsureConfigDir() (string, error) {
	configDir, err := DiscoverConfigDir()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return "", err
		}
	}

	return configDir, nil
}

// gitTopLevel returns the git repository root directory
func gitTopLevel() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
