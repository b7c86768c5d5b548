package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// PollInterval controls how often the server re-reads the API keys
	// secret. Zero disables rotation.
	PollInterval time.Duration `mapstructure:"pollInterval"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds the KVv2 paths of the secrets spotghost reads. An empty
// path leaves the matching setting as configured.
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`   // "keys": comma-separated or a list
	GeminiKey string `mapstructure:"geminiKey"` // "api_key"
	Database  string `mapstructure:"database"`  // "url"
}

// VaultSecret is one version of a KVv2 secret.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// secretReader is the part of the Vault client the secret table needs.
type secretReader interface {
	GetSecretV2(path string) (*VaultSecret, error)
}

// secretBinding maps one Vault secret field onto a config setting. apply
// reports false when the field held nothing usable.
type secretBinding struct {
	name  string
	path  func(VaultSecrets) string
	field string
	apply func(cfg *Config, value any) bool
}

var secretBindings = []secretBinding{
	{
		name:  "API keys",
		path:  func(s VaultSecrets) string { return s.APIKeys },
		field: "keys",
		apply: func(cfg *Config, value any) bool {
			keys := SecretKeys(value)
			if len(keys) == 0 {
				return false
			}
			cfg.Server.APIKeys = keys
			return true
		},
	},
	{
		name:  "Gemini API key",
		path:  func(s VaultSecrets) string { return s.GeminiKey },
		field: "api_key",
		apply: stringSetting(func(cfg *Config) *string { return &cfg.AI.APIKey }),
	},
	{
		name:  "database URL",
		path:  func(s VaultSecrets) string { return s.Database },
		field: "url",
		apply: stringSetting(func(cfg *Config) *string { return &cfg.Storage.DatabaseURL }),
	},
}

func stringSetting(target func(*Config) *string) func(*Config, any) bool {
	return func(cfg *Config, value any) bool {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return false
		}
		*target(cfg) = strings.TrimSpace(s)
		return true
	}
}

// SecretKeys reads API keys stored either as a comma-separated string or as
// a list of strings. Blank entries are dropped.
func SecretKeys(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	}

	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// ApplyVaultSecrets overrides the API keys, the Gemini key and the database
// URL with the values stored in Vault. It does nothing when Vault is disabled.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	if !cfg.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(client, cfg, logger)
}

func applySecrets(r secretReader, cfg *Config, logger *errors.Logger) error {
	for _, b := range secretBindings {
		path := b.path(cfg.Vault.Secrets)
		if path == "" {
			continue
		}

		secret, err := r.GetSecretV2(path)
		if err == nil && secret == nil {
			err = fmt.Errorf("secret not found at path: %s", path)
		}
		if err != nil {
			return fmt.Errorf("failed to load %s from vault: %w", b.name, err)
		}
		value, ok := secret.Data[b.field]
		if !ok {
			return fmt.Errorf("failed to load %s from vault: secret %s has no %q field", b.name, path, b.field)
		}
		if !b.apply(cfg, value) {
			logger.Warn("Empty secret in Vault, keeping configured value", "secret", b.name, "path", path)
			continue
		}
		logger.Info("Secret loaded from Vault", "secret", b.name, "version", secret.Version)
	}
	return nil
}

// VaultClient reads KVv2 secrets.
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient connects to Vault and checks its health. It returns a nil
// client when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	if !cfg.Enabled {
		return nil, nil
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		logger.LogError(err, "Failed to connect to Vault", "address", cfg.Address)
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	logger.Info("Connected to Vault", "address", cfg.Address, "version", health.Version, "sealed", health.Sealed)

	return &VaultClient{client: client, logger: logger}, nil
}

// resolveVaultToken prefers the configured token over the token file.
func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		b, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(b))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// GetSecretV2 reads the latest version of a KVv2 secret.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	vc.logger.Debug("Reading secret from Vault", "path", path)
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return decodeKV2(secret.Data, path)
}

// decodeKV2 splits a KVv2 response body into its data and version.
func decodeKV2(body map[string]any, path string) (*VaultSecret, error) {
	data, ok := body["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := body["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}

	var version int64
	var err error
	switch v := metadata["version"].(type) {
	case json.Number:
		version, err = v.Int64()
	case float64:
		version = int64(v)
	case int64:
		version = v
	case string:
		version, err = strconv.ParseInt(v, 10, 64)
	default:
		err = fmt.Errorf("unexpected type %T", v)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse secret version at %s: %w", path, err)
	}
	return &VaultSecret{Data: data, Version: version}, nil
}
