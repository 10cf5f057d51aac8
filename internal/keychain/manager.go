// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for alumnet.
// It is the persistent local storage behind the backend client handle: the
// provider session (access token, refresh token, expiry, user) is kept as a
// single JSON item in the OS credential store so it survives between runs.
//
// macOS uses the native security command first and the keyring library
// second; Windows uses Credential Manager; Linux uses Secret Service, KWallet,
// pass, or an encrypted file under the XDG state directory.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	apperrors "alumnet/cli/internal/errors"
	"alumnet/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// errNotFound is returned by backends for a missing key.
var errNotFound = errors.New("key not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "alumnet"

// Keys used for storing secrets in the OS keychain.
const (
	KeySession = "auth_session"
)

// fileKeyEnv supplies the passphrase of the encrypted file backend.
const fileKeyEnv = "ALUMNET_KEYRING_PASSWORD"

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.StorageUnavailable, "open OS keychain", err)
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		globalManager = nil
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring with the platform's preferred backends.
func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName: ServiceName,
		PassPrefix:  ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
		cfg.WinCredPrefix = ServiceName
	default:
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
		cfg.LibSecretCollectionName = ServiceName
		cfg.KWalletAppID = ServiceName
		cfg.KWalletFolder = ServiceName
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.FileDir = dir
		cfg.FilePasswordFunc = filePassword
	}

	return keyring.Open(cfg)
}

// filePassword supplies the passphrase for the encrypted file backend.
// Headless machines set it through the environment; otherwise the user is asked.
func filePassword(prompt string) (string, error) {
	if v := os.Getenv(fileKeyEnv); v != "" {
		return v, nil
	}
	return keyring.TerminalPrompt(prompt)
}

// SaveSession stores the serialized provider session.
// This method is thread-safe.
func (m *Manager) SaveSession(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeySession, string(data))
	}
	return m.ring.Set(keyring.Item{
		Key:         KeySession,
		Data:        data,
		Label:       "alumnet session",
		Description: "alumnet provider session",
	})
}

// LoadSession retrieves the serialized provider session.
// A missing item yields (nil, nil). This method is thread-safe.
func (m *Manager) LoadSession() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		data, err := m.backend.Get(KeySession)
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []byte(data), nil
	}

	it, err := m.ring.Get(KeySession)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

// ClearSession removes the stored session. Removing a missing item is not an error.
// This method is thread-safe.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(KeySession)
	}
	if err := m.ring.Remove(KeySession); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
