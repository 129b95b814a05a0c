package cmd

import (
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/ticketforge/internal/provider"
	"github.com/felixgeelhaar/ticketforge/internal/security"
)

func TestCredentialName(t *testing.T) {
	if got := credentialName("anthropic"); got != "anthropic-api-key" {
		t.Errorf("credentialName() = %s, want anthropic-api-key", got)
	}
}

func TestProviderArg(t *testing.T) {
	if got := providerArg(nil); got != "anthropic" {
		t.Errorf("providerArg(nil) = %s, want anthropic", got)
	}
	if got := providerArg([]string{"other"}); got != "other" {
		t.Errorf("providerArg() = %s, want other", got)
	}
}

// A key stored under the auth naming convention must be found by the
// provider's credential lookup during plan run.
func TestStoredKeyResolvesForProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	storePath := filepath.Join(t.TempDir(), "credentials.json")
	store, err := security.NewCredentialStore(storePath, "test-passphrase")
	if err != nil {
		t.Fatalf("NewCredentialStore() error = %v", err)
	}

	if err := store.Store(credentialName("anthropic"), "sk-ant-test"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	config := provider.DefaultConfig()
	if err := config.ResolveAPIKey(store.Lookup); err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}

	if config.APIKey != "sk-ant-test" {
		t.Errorf("APIKey = %s, want sk-ant-test", config.APIKey)
	}
}

func TestEnvironmentWinsOverStore(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env")

	storePath := filepath.Join(t.TempDir(), "credentials.json")
	store, err := security.NewCredentialStore(storePath, "test-passphrase")
	if err != nil {
		t.Fatalf("NewCredentialStore() error = %v", err)
	}
	if err := store.Store(credentialName("anthropic"), "sk-ant-from-store"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	config := provider.DefaultConfig()
	if err := config.ResolveAPIKey(store.Lookup); err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}

	if config.APIKey != "sk-ant-from-env" {
		t.Errorf("APIKey = %s, want the environment value", config.APIKey)
	}
}
