package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

func newTestStore(t *testing.T) (*CredentialStore, string) {
	t.Helper()
	storePath := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewCredentialStore(storePath, "test-passphrase")
	if err != nil {
		t.Fatalf("NewCredentialStore() error = %v", err)
	}
	return store, storePath
}

func TestCredentialStore_StoreAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Store("anthropic-api-key", "sk-ant-test-1234"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := store.Get("anthropic-api-key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "sk-ant-test-1234" {
		t.Errorf("Get() = %q, want %q", got, "sk-ant-test-1234")
	}
}

func TestCredentialStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get("nope")
	if err == nil {
		t.Fatal("Get() expected error for missing credential")
	}
	if !errors.HasCode(err, errors.ErrCodeCredentialNotFound) {
		t.Errorf("Get() error = %v, want code %s", err, errors.ErrCodeCredentialNotFound)
	}
}

func TestCredentialStore_ValueEncryptedOnDisk(t *testing.T) {
	store, storePath := newTestStore(t)

	if err := store.Store("anthropic-api-key", "sk-ant-secret-value"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "sk-ant-secret-value") {
		t.Error("store file contains the plaintext credential")
	}

	info, err := os.Stat(storePath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("store file permissions = %o, want 0600", perm)
	}
}

func TestCredentialStore_PersistsAcrossOpens(t *testing.T) {
	store, storePath := newTestStore(t)
	if err := store.Store("anthropic-api-key", "sk-ant-persisted"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	reopened, err := NewCredentialStore(storePath, "test-passphrase")
	if err != nil {
		t.Fatalf("NewCredentialStore() reopen error = %v", err)
	}
	got, err := reopened.Get("anthropic-api-key")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got != "sk-ant-persisted" {
		t.Errorf("Get() after reopen = %q, want %q", got, "sk-ant-persisted")
	}
}

func TestCredentialStore_WrongPassphrase(t *testing.T) {
	store, storePath := newTestStore(t)
	if err := store.Store("anthropic-api-key", "sk-ant-secret"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	reopened, err := NewCredentialStore(storePath, "different-passphrase")
	if err != nil {
		t.Fatalf("NewCredentialStore() error = %v", err)
	}

	_, err = reopened.Get("anthropic-api-key")
	if err == nil {
		t.Fatal("Get() expected error with wrong passphrase")
	}
	if !errors.HasCode(err, errors.ErrCodeCredentialDecrypt) {
		t.Errorf("Get() error = %v, want code %s", err, errors.ErrCodeCredentialDecrypt)
	}

	if _, ok := reopened.Lookup("anthropic-api-key"); ok {
		t.Error("Lookup() should report an undecryptable credential as absent")
	}
}

func TestCredentialStore_Overwrite(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Store("anthropic-api-key", "old"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	before, err := store.Info("anthropic-api-key")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}

	if err := store.Store("anthropic-api-key", "new"); err != nil {
		t.Fatalf("Store() overwrite error = %v", err)
	}

	got, err := store.Get("anthropic-api-key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "new" {
		t.Errorf("Get() = %q, want %q", got, "new")
	}

	after, err := store.Info("anthropic-api-key")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("overwrite must keep the original CreatedAt")
	}
	if after.Value != "" {
		t.Error("Info() must not expose the stored value")
	}
}

func TestCredentialStore_DeleteAndList(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"b-key", "a-key", "c-key"} {
		if err := store.Store(name, "value"); err != nil {
			t.Fatalf("Store(%s) error = %v", name, err)
		}
	}

	names := store.List()
	want := []string{"a-key", "b-key", "c-key"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if err := store.Delete("b-key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.List()) != 2 {
		t.Errorf("List() after delete = %v, want 2 entries", store.List())
	}

	if err := store.Delete("b-key"); err == nil {
		t.Error("Delete() of a missing credential should fail")
	}
}
