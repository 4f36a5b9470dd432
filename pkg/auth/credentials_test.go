package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	backend, err := manager.Store(&Credential{AccessKey: "  abcdef1234567890  "})
	if err != nil {
		t.Fatalf("Failed to store credential: %v", err)
	}
	if backend != "mock" {
		t.Errorf("backend = %s, want mock", backend)
	}

	cred, from, err := manager.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve credential: %v", err)
	}
	if cred.Profile != DefaultProfile {
		t.Errorf("Profile = %s, want %s", cred.Profile, DefaultProfile)
	}
	if cred.AccessKey != "abcdef1234567890" {
		t.Errorf("AccessKey not trimmed: %q", cred.AccessKey)
	}
	if cred.LastModified.IsZero() {
		t.Error("LastModified should be set")
	}
	if from != "mock" {
		t.Errorf("retrieved from %s, want mock", from)
	}

	key, err := manager.AccessKey(DefaultProfile)
	if err != nil || key != "abcdef1234567890" {
		t.Errorf("AccessKey() = %q, %v", key, err)
	}

	if err := manager.Delete(DefaultProfile); err != nil {
		t.Errorf("Failed to delete credential: %v", err)
	}
	if _, _, err := manager.Retrieve(DefaultProfile); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("expected ErrCredentialsNotFound, got %v", err)
	}
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 credentials after deletion, got %d", mockStore.Count())
	}
}

func TestManagerRejectsEmptyKey(t *testing.T) {
	manager, _ := NewMockManager()

	for _, cred := range []*Credential{nil, {AccessKey: ""}, {AccessKey: "   "}} {
		if _, err := manager.Store(cred); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Store(%+v) error = %v, want ErrInvalidCredentials", cred, err)
		}
	}
}

func TestManagerFallback(t *testing.T) {
	primary := NewNamedMockStore("primary")
	secondary := NewNamedMockStore("secondary")
	manager := NewManagerWithStores(primary, secondary)

	// Primary broken: write lands in secondary
	primary.StoreError = errors.New("locked")
	backend, err := manager.Store(&Credential{Profile: "work", AccessKey: "key-1"})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if backend != "secondary" {
		t.Errorf("backend = %s, want secondary", backend)
	}

	// Primary is consulted first but has nothing
	primary.StoreError = nil
	_, from, err := manager.Retrieve("work")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if from != "secondary" {
		t.Errorf("retrieved from %s, want secondary", from)
	}

	got := manager.Backends()
	if len(got) != 2 || got[0] != "primary" || got[1] != "secondary" {
		t.Errorf("Backends() = %v", got)
	}
}

func TestManagerAllStoresFail(t *testing.T) {
	s := NewMockStore()
	s.StoreError = errors.New("disk full")
	manager := NewManagerWithStores(s)

	if _, err := manager.Store(&Credential{AccessKey: "k"}); err == nil {
		t.Error("expected error when every backend fails")
	}

	empty := NewManagerWithStores()
	if _, err := empty.Store(&Credential{AccessKey: "k"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestManagerListMergesNewest(t *testing.T) {
	a := NewNamedMockStore("a")
	b := NewNamedMockStore("b")
	now := time.Now()

	_ = a.Store(&Credential{Profile: "default", AccessKey: "old", LastModified: now.Add(-time.Hour)})
	_ = b.Store(&Credential{Profile: "default", AccessKey: "new", LastModified: now})
	_ = b.Store(&Credential{Profile: "alt", AccessKey: "alt-key", LastModified: now})

	list, err := NewManagerWithStores(a, b).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].Profile != "alt" || list[1].Profile != "default" {
		t.Errorf("list not sorted: %s, %s", list[0].Profile, list[1].Profile)
	}
	if list[1].AccessKey != "new" {
		t.Errorf("newest copy should win, got %s", list[1].AccessKey)
	}
}

func TestManagerDeleteAcrossStores(t *testing.T) {
	a := NewNamedMockStore("a")
	b := NewNamedMockStore("b")
	_ = b.Store(&Credential{Profile: "default", AccessKey: "k"})

	manager := NewManagerWithStores(a, b)
	if err := manager.Delete(""); err != nil {
		t.Errorf("Delete should ignore stores without the profile: %v", err)
	}
	if err := manager.Delete(""); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("second Delete error = %v, want ErrCredentialsNotFound", err)
	}

	b.DeleteError = errors.New("boom")
	_ = b.Store(&Credential{Profile: "default", AccessKey: "k"})
	if err := manager.Delete(""); err == nil || errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("expected backend failure to surface, got %v", err)
	}
}

func TestEncryptedFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	store, err := NewEncryptedFileStore(path, "test-passphrase")
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	if store.Exists("default") {
		t.Error("empty store should not report credentials")
	}
	if list, err := store.List(); err != nil || len(list) != 0 {
		t.Errorf("List() on empty store = %v, %v", list, err)
	}

	cred := &Credential{Profile: "default", AccessKey: "secret-access-key", LastModified: time.Now()}
	if err := store.Store(cred); err != nil {
		t.Fatalf("Failed to store credential: %v", err)
	}
	_ = store.Store(&Credential{Profile: "second", AccessKey: "other"})

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("credentials file missing: %v", err)
	}
	if strings.Contains(string(raw), "secret-access-key") {
		t.Error("access key stored in plaintext")
	}

	info, err := os.Stat(path)
	if err == nil && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	// A fresh store with the same passphrase reads it back
	reopened, err := NewEncryptedFileStore(path, "test-passphrase")
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Retrieve("default")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got.AccessKey != cred.AccessKey {
		t.Errorf("AccessKey = %s, want %s", got.AccessKey, cred.AccessKey)
	}

	list, err := reopened.List()
	if err != nil || len(list) != 2 {
		t.Errorf("List() = %d entries, %v", len(list), err)
	}

	if err := reopened.Delete("default"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := reopened.Delete("default"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("second Delete = %v", err)
	}
	if err := reopened.Delete("second"); err != nil {
		t.Errorf("Delete last: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be removed with the last credential")
	}
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, _ := NewEncryptedFileStore(path, "right")
	if err := store.Store(&Credential{Profile: "default", AccessKey: "k"}); err != nil {
		t.Fatal(err)
	}

	wrong, _ := NewEncryptedFileStore(path, "wrong")
	if _, err := wrong.Retrieve("default"); err == nil || errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("expected decrypt failure, got %v", err)
	}
}

func TestEncryptedFileStorePassphraseSources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv(passphraseEnv, "from-env")
		store, err := NewEncryptedFileStore(filepath.Join(t.TempDir(), "c.enc"), "")
		if err != nil {
			t.Fatal(err)
		}
		if store.passphrase != "from-env" {
			t.Errorf("passphrase = %s", store.passphrase)
		}
	})

	t.Run("generated file is reused", func(t *testing.T) {
		t.Setenv(passphraseEnv, "")
		dir := t.TempDir()

		first, err := NewEncryptedFileStore(filepath.Join(dir, "c.enc"), "")
		if err != nil {
			t.Fatal(err)
		}
		second, err := NewEncryptedFileStore(filepath.Join(dir, "c.enc"), "")
		if err != nil {
			t.Fatal(err)
		}
		if first.passphrase == "" || first.passphrase != second.passphrase {
			t.Error("generated passphrase should persist")
		}
		if _, err := os.Stat(filepath.Join(dir, ".passphrase")); err != nil {
			t.Errorf(".passphrase not written: %v", err)
		}
	})
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	if err != nil {
		t.Fatalf("NewKeyringStore: %v", err)
	}
	if store.Name() != "keyring" {
		t.Errorf("Name() = %s", store.Name())
	}

	if _, err := store.Retrieve("default"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Retrieve on empty keyring = %v", err)
	}

	if err := store.Store(&Credential{Profile: "default", AccessKey: "kr-key"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !store.Exists("default") {
		t.Error("Exists should be true after Store")
	}

	list, _ := store.List()
	if len(list) != 1 || list[0].AccessKey != "kr-key" {
		t.Errorf("List() = %v", list)
	}

	if err := store.Delete("default"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := store.Delete("default"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("second Delete = %v", err)
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":                   "********",
		"short":              "********",
		"abcdefgh":           "********",
		"abcd1234567890wxyz": "abcd...wxyz",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
