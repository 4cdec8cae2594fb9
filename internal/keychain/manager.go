// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the QueryWeaver API token and serialized auth
// state in the OS credential store: macOS Keychain, Windows Credential
// Manager or the Linux Secret Service, with an encrypted file under the
// XDG config directory as the fallback for headless machines.
package keychain

import (
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"queryweaver/cli/internal/xdg"
)

// ServiceName namespaces our entries in the credential store.
const ServiceName = "queryweaver"

// Entry keys within the service namespace.
const (
	KeyAPIToken  = "api_token"
	KeyAuthState = "auth_state"
)

// store is the minimal secret-store surface the manager needs. It is
// satisfied by the native macOS security backend and by ringStore.
type store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ringStore adapts the keyring library to the store interface.
type ringStore struct {
	ring keyring.Keyring
}

func (r ringStore) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (r ringStore) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringStore) Delete(key string) error {
	return r.ring.Remove(key)
}

// Manager serializes access to the secret store. All methods are safe
// for concurrent use.
type Manager struct {
	mu sync.RWMutex
	st store
}

var (
	globalMu      sync.Mutex
	globalManager *Manager
)

// GetManager returns the process-wide manager, creating it on first use.
// A failed initialization is retried on the next call rather than cached.
func GetManager() (*Manager, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return m, nil
}

// MustGetManager is GetManager for call sites that cannot proceed
// without a secret store. It panics on initialization failure.
func MustGetManager() *Manager {
	m, err := GetManager()
	if err != nil {
		panic(err)
	}
	return m
}

// NewManager opens the platform secret store. On macOS the
// /usr/bin/security backend is preferred; everywhere else (and when
// security is unavailable) the keyring library picks the best backend.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if backend, err := newSecurityBackend(); err == nil {
			return &Manager{st: backend}, nil
		}
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{st: ringStore{ring: ring}}, nil
}

func openRing() (keyring.Keyring, error) {
	var backends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires the 'pass' utility: brew install pass
		backends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	case "windows":
		backends = []keyring.BackendType{
			keyring.WinCredBackend,
			keyring.FileBackend,
		}
	default:
		backends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}

	configDir, err := xdg.ConfigDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          backends,
		PassPrefix:               ServiceName,
		LibSecretCollectionName:  "login",
		FileDir:                  filepath.Join(configDir, "keyring"),
		FilePasswordFunc:         keyring.FixedStringPrompt(ServiceName),
		KeychainTrustApplication: true,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	return keyring.Open(cfg)
}

// SaveAPIToken stores the API token. Storing an empty token is a no-op.
func (m *Manager) SaveAPIToken(token string) error {
	if token == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Set(KeyAPIToken, token)
}

// LoadAPIToken returns the stored API token, or keyring.ErrKeyNotFound
// when none is stored.
func (m *Manager) LoadAPIToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, err := m.st.Get(KeyAPIToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", keyring.ErrKeyNotFound
	}
	return token, nil
}

// SaveAuthState stores the serialized auth state blob.
func (m *Manager) SaveAuthState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Set(KeyAuthState, string(data))
}

// LoadAuthState returns the serialized auth state blob.
func (m *Manager) LoadAuthState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.st.Get(KeyAuthState)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// ClearAuthState removes only the auth state entry.
func (m *Manager) ClearAuthState() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.st.Delete(KeyAuthState)
	return nil
}

// ClearAuth removes the token and the auth state. Missing entries are
// not an error; logout must succeed on a half-written store.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.st.Delete(KeyAPIToken)
	_ = m.st.Delete(KeyAuthState)
	return nil
}

// ClearAll removes every entry this CLI owns.
func (m *Manager) ClearAll() error {
	return m.ClearAuth()
}
