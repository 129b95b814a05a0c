// Package security holds the encrypted credential store the auth commands
// use for provider API keys. Values are encrypted with AES-GCM under a key
// derived from a passphrase; the store file never contains plaintext keys.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// PassphraseEnv names the environment variable holding the store
// passphrase. When unset the store falls back to a machine-local default,
// which protects the file at rest but not against a local attacker.
const PassphraseEnv = "TICKETFORGE_PASSPHRASE"

const defaultPassphrase = "ticketforge-local-store"

const keyIterations = 100000

// Credential is one stored secret. Value is always the encrypted form.
type Credential struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialStore manages encrypted credentials in a single JSON file
type CredentialStore struct {
	mu          sync.RWMutex
	storePath   string
	masterKey   []byte
	credentials map[string]*Credential
}

// NewCredentialStore opens the store at storePath, creating an empty one
// if the file does not exist yet
func NewCredentialStore(storePath, passphrase string) (*CredentialStore, error) {
	if passphrase == "" {
		passphrase = os.Getenv(PassphraseEnv)
	}
	if passphrase == "" {
		passphrase = defaultPassphrase
	}

	salt := []byte("ticketforge-credential-store")
	store := &CredentialStore{
		storePath:   storePath,
		masterKey:   pbkdf2.Key([]byte(passphrase), salt, keyIterations, 32, sha256.New),
		credentials: make(map[string]*Credential),
	}

	if _, err := os.Stat(storePath); err == nil {
		if err := store.load(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// DefaultStorePath returns the conventional store location under the
// user's home directory
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ticketforge", "credentials.json"), nil
}

// Store encrypts and saves a credential, overwriting any existing value
// under the same name
func (s *CredentialStore) Store(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encrypted, err := s.encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt credential %s: %w", name, err)
	}

	now := time.Now()
	createdAt := now
	if existing, ok := s.credentials[name]; ok {
		createdAt = existing.CreatedAt
	}

	s.credentials[name] = &Credential{
		Name:      name,
		Value:     encrypted,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	return s.save()
}

// Get decrypts and returns a credential value
func (s *CredentialStore) Get(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[name]
	if !ok {
		return "", errors.NewCredentialNotFoundError(name)
	}

	value, err := s.decrypt(cred.Value)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeCredentialDecrypt,
			"failed to decrypt credential "+name+"; the store passphrase may have changed", err)
	}
	return value, nil
}

// Lookup is Get shaped for provider key resolution: a missing or
// undecryptable credential is reported as absent, never as an error
func (s *CredentialStore) Lookup(name string) (string, bool) {
	value, err := s.Get(name)
	if err != nil {
		return "", false
	}
	return value, true
}

// Delete removes a credential
func (s *CredentialStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[name]; !ok {
		return errors.NewCredentialNotFoundError(name)
	}
	delete(s.credentials, name)
	return s.save()
}

// List returns the stored credential names in sorted order
func (s *CredentialStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.credentials))
	for name := range s.credentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns credential metadata without the value
func (s *CredentialStore) Info(name string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[name]
	if !ok {
		return nil, errors.NewCredentialNotFoundError(name)
	}
	return &Credential{
		Name:      cred.Name,
		CreatedAt: cred.CreatedAt,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}

func (s *CredentialStore) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *CredentialStore) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (s *CredentialStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.storePath), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.credentials, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.storePath, data, 0600)
}

func (s *CredentialStore) load() error {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.credentials)
}
