package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

// apiKeysField is the key holding the comma-separated API keys in the secret.
const apiKeysField = "keys"

// VaultClientInterface defines the interface for Vault operations
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// KeysReloadCallback receives the API keys from a new secret version.
type KeysReloadCallback func(keys []string)

// VaultWatcher polls the API keys secret and hands every new version to the
// callback. Versions that fail to read or carry no keys are logged and skipped,
// so the server keeps its current keys.
type VaultWatcher struct {
	mu sync.RWMutex

	client         VaultClientInterface
	secretPath     string
	pollInterval   time.Duration
	reloadCallback KeysReloadCallback
	logger         *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	lastReload  time.Time
	lastError   string
}

// NewVaultWatcher creates a new VaultWatcher
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, reloadCallback KeysReloadCallback, logger *errors.Logger) *VaultWatcher {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	return &VaultWatcher{
		client:         client,
		secretPath:     secretPath,
		pollInterval:   pollInterval,
		reloadCallback: reloadCallback,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start records the current secret version and begins polling. Keys
// loaded at startup are not delivered again.
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	if vw.pollInterval <= 0 {
		return fmt.Errorf("vault poll interval must be positive")
	}
	if secret, err := vw.client.GetSecretV2(vw.secretPath); err == nil && secret != nil {
		vw.lastVersion = secret.Version
	}
	vw.running = true
	go vw.pollLoop()
	vw.logger.Info("Vault watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	vw.logger.Info("Vault watcher stopped")
	return nil
}

// pollLoop polls Vault for secret changes
func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.poll()
		case <-vw.stopChan:
			return
		}
	}
}

// poll checks once and delivers new keys when the version moved.
func (vw *VaultWatcher) poll() {
	keys, changed, err := vw.checkForUpdates()
	if err != nil {
		vw.setError(err)
		vw.logger.LogError(err, "Failed to check Vault for API key updates")
		return
	}
	if !changed {
		return
	}
	if len(keys) == 0 {
		err := fmt.Errorf("secret %s has no %q entries", vw.secretPath, apiKeysField)
		vw.setError(err)
		vw.logger.Warn("Ignoring API key rotation without keys", "secret_path", vw.secretPath)
		return
	}

	vw.logger.Info("API keys rotated from Vault", "count", len(keys))
	vw.reloadCallback(keys)

	vw.mu.Lock()
	vw.lastReload = time.Now()
	vw.lastError = ""
	vw.mu.Unlock()
}

// checkForUpdates reads the secret and returns its keys when its version is
// newer than the last one seen.
func (vw *VaultWatcher) checkForUpdates() ([]string, bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return nil, false, fmt.Errorf("secret not found at path: %s", vw.secretPath)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if secret.Version <= vw.lastVersion {
		return nil, false, nil
	}
	vw.lastVersion = secret.Version
	return config.SecretKeys(secret.Data[apiKeysField]), true, nil
}

func (vw *VaultWatcher) setError(err error) {
	vw.mu.Lock()
	vw.lastError = err.Error()
	vw.mu.Unlock()
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
	}
	if !vw.lastReload.IsZero() {
		status["last_reload"] = vw.lastReload
	}
	if vw.lastError != "" {
		status["last_error"] = vw.lastError
	}
	return status
}
