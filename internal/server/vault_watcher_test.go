package server

import (
	stderrors "errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
)

// MockVaultClient is a mock implementation for testing
type MockVaultClient struct {
	mu      sync.Mutex
	secrets map[string]*config.VaultSecret
	err     error
}

func (m *MockVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if secret, exists := m.secrets[path]; exists {
		return secret, nil
	}
	return nil, nil
}

func (m *MockVaultClient) set(path string, secret *config.VaultSecret) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[path] = secret
}

func TestVaultWatcherCheckForUpdates(t *testing.T) {
	mockClient := &MockVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/api": {
				Data:    map[string]any{"keys": "alpha, beta,,gamma"},
				Version: 2,
			},
		},
	}

	vw := NewVaultWatcher(mockClient, "secret/data/api", time.Minute, func([]string) {}, nil)

	keys, changed, err := vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if !changed {
		t.Error("Expected change to be detected")
	}
	if want := []string{"alpha", "beta", "gamma"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Expected keys %v, got %v", want, keys)
	}

	_, changed, err = vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if changed {
		t.Error("Expected no change to be detected")
	}
}

func TestVaultWatcherPollDeliversRotation(t *testing.T) {
	mockClient := &MockVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/api": {Data: map[string]any{"keys": "old"}, Version: 1},
		},
	}

	var got []string
	vw := NewVaultWatcher(mockClient, "secret/data/api", time.Minute, func(keys []string) { got = keys }, nil)
	if err := vw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = vw.Stop() }()

	vw.poll()
	if got != nil {
		t.Fatalf("Expected the startup version not to be redelivered, got %v", got)
	}

	mockClient.set("secret/data/api", &config.VaultSecret{Data: map[string]any{"keys": []any{"new-1", "new-2"}}, Version: 2})
	vw.poll()
	if want := []string{"new-1", "new-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected rotated keys %v, got %v", want, got)
	}

	mockClient.set("secret/data/api", &config.VaultSecret{Data: map[string]any{"keys": ""}, Version: 3})
	vw.poll()
	if len(got) != 2 {
		t.Errorf("Expected an empty rotation to be ignored, got %v", got)
	}
	if status := vw.Status(); status["last_error"] == nil || status["last_version"] != int64(3) {
		t.Errorf("Unexpected status %v", status)
	}
}

func TestVaultWatcherReadError(t *testing.T) {
	mockClient := &MockVaultClient{secrets: map[string]*config.VaultSecret{}, err: stderrors.New("sealed")}
	called := false
	vw := NewVaultWatcher(mockClient, "secret/data/api", time.Minute, func([]string) { called = true }, nil)

	vw.poll()
	if called {
		t.Error("Expected no callback on read failure")
	}
	if vw.Status()["last_error"] == nil {
		t.Error("Expected the read error in status")
	}
}

func TestVaultWatcherRejectsZeroInterval(t *testing.T) {
	vw := NewVaultWatcher(&MockVaultClient{secrets: map[string]*config.VaultSecret{}}, "p", 0, func([]string) {}, nil)
	if err := vw.Start(); err == nil {
		t.Error("Expected zero poll interval to be rejected")
	}
}
