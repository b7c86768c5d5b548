package config

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecrets serves fixed secrets by path.
type fakeSecrets struct {
	secrets map[string]*VaultSecret
	err     error
	reads   []string
}

func (f *fakeSecrets) GetSecretV2(path string) (*VaultSecret, error) {
	f.reads = append(f.reads, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.secrets[path], nil
}

func spotghostPaths() VaultSecrets {
	return VaultSecrets{
		APIKeys:   "secret/data/spotghost/api",
		GeminiKey: "secret/data/spotghost/gemini",
		Database:  "secret/data/spotghost/db",
	}
}

func TestApplySecrets(t *testing.T) {
	tests := []struct {
		name       string
		paths      VaultSecrets
		secrets    map[string]*VaultSecret
		wantKeys   []string
		wantGemini string
		wantDB     string
		wantErr    string
	}{
		{
			name:  "all secrets",
			paths: spotghostPaths(),
			secrets: map[string]*VaultSecret{
				"secret/data/spotghost/api":    {Data: map[string]any{"keys": "k1, k2 ,k3"}, Version: 4},
				"secret/data/spotghost/gemini": {Data: map[string]any{"api_key": " gemini-key "}, Version: 1},
				"secret/data/spotghost/db":     {Data: map[string]any{"url": "postgres://spot@db/spotghost"}, Version: 2},
			},
			wantKeys:   []string{"k1", "k2", "k3"},
			wantGemini: "gemini-key",
			wantDB:     "postgres://spot@db/spotghost",
		},
		{
			name:  "api keys as list",
			paths: VaultSecrets{APIKeys: "secret/data/spotghost/api"},
			secrets: map[string]*VaultSecret{
				"secret/data/spotghost/api": {Data: map[string]any{"keys": []any{"a", " ", "b"}}},
			},
			wantKeys:   []string{"a", "b"},
			wantGemini: "configured-gemini",
			wantDB:     "postgres://local/spotghost",
		},
		{
			name:  "empty values keep configured settings",
			paths: spotghostPaths(),
			secrets: map[string]*VaultSecret{
				"secret/data/spotghost/api":    {Data: map[string]any{"keys": " , "}},
				"secret/data/spotghost/gemini": {Data: map[string]any{"api_key": ""}},
				"secret/data/spotghost/db":     {Data: map[string]any{"url": 42}},
			},
			wantKeys:   []string{"configured"},
			wantGemini: "configured-gemini",
			wantDB:     "postgres://local/spotghost",
		},
		{
			name:    "missing field",
			paths:   VaultSecrets{GeminiKey: "secret/data/spotghost/gemini"},
			secrets: map[string]*VaultSecret{"secret/data/spotghost/gemini": {Data: map[string]any{"key": "x"}}},
			wantErr: `Gemini API key from vault: secret secret/data/spotghost/gemini has no "api_key" field`,
		},
		{
			name:    "missing secret",
			paths:   VaultSecrets{Database: "secret/data/spotghost/db"},
			secrets: map[string]*VaultSecret{},
			wantErr: "failed to load database URL from vault",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Vault: VaultConfig{Enabled: true, Secrets: tt.paths}}
			cfg.Server.APIKeys = []string{"configured"}
			cfg.AI.APIKey = "configured-gemini"
			cfg.Storage.DatabaseURL = "postgres://local/spotghost"

			err := applySecrets(&fakeSecrets{secrets: tt.secrets}, cfg, errors.NewDiscardLogger())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, cfg.Server.APIKeys)
			assert.Equal(t, tt.wantGemini, cfg.AI.APIKey)
			assert.Equal(t, tt.wantDB, cfg.Storage.DatabaseURL)
		})
	}
}

func TestApplySecretsSkipsUnsetPaths(t *testing.T) {
	reader := &fakeSecrets{secrets: map[string]*VaultSecret{}}
	cfg := &Config{Vault: VaultConfig{Enabled: true}}

	require.NoError(t, applySecrets(reader, cfg, nil))
	assert.Empty(t, reader.reads)
}

func TestApplySecretsReadError(t *testing.T) {
	reader := &fakeSecrets{err: stderrors.New("permission denied")}
	cfg := &Config{Vault: VaultConfig{Enabled: true, Secrets: spotghostPaths()}}

	err := applySecrets(reader, cfg, errors.NewDiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API keys")
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, []string{"secret/data/spotghost/api"}, reader.reads)
}

func TestSecretKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"comma separated", "k1,k2", []string{"k1", "k2"}},
		{"trimmed", " k1 , ,k2 ", []string{"k1", "k2"}},
		{"string list", []string{"k1", ""}, []string{"k1"}},
		{"json list", []any{"k1", 7, "k2"}, []string{"k1", "k2"}},
		{"empty string", "", []string{}},
		{"missing", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecretKeys(tt.raw))
		})
	}
}

func TestDecodeKV2(t *testing.T) {
	data := map[string]any{"url": "postgres://db"}

	tests := []struct {
		name        string
		body        map[string]any
		wantVersion int64
		wantErr     string
	}{
		{"json number", map[string]any{"data": data, "metadata": map[string]any{"version": json.Number("7")}}, 7, ""},
		{"float", map[string]any{"data": data, "metadata": map[string]any{"version": float64(3)}}, 3, ""},
		{"string", map[string]any{"data": data, "metadata": map[string]any{"version": "12"}}, 12, ""},
		{"bad string", map[string]any{"data": data, "metadata": map[string]any{"version": "v2"}}, 0, "could not parse secret version"},
		{"no version", map[string]any{"data": data, "metadata": map[string]any{}}, 0, "could not parse secret version"},
		{"kv1 layout", map[string]any{"url": "postgres://db"}, 0, "missing 'data' field"},
		{"no metadata", map[string]any{"data": data}, 0, "missing 'metadata' field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := decodeKV2(tt.body, "secret/data/spotghost/db")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, secret.Version)
			assert.Equal(t, data, secret.Data)
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token \n"), 0o600))
	blankFile := filepath.Join(dir, "blank")
	require.NoError(t, os.WriteFile(blankFile, []byte(" \n"), 0o600))

	tests := []struct {
		name    string
		cfg     VaultConfig
		want    string
		wantErr string
	}{
		{"token wins over file", VaultConfig{Token: "direct", TokenFile: tokenFile}, "direct", ""},
		{"token file trimmed", VaultConfig{TokenFile: tokenFile}, "file-token", ""},
		{"unreadable file", VaultConfig{TokenFile: filepath.Join(dir, "missing")}, "", "failed to read vault token file"},
		{"blank file", VaultConfig{TokenFile: blankFile}, "", "vault token is required"},
		{"nothing set", VaultConfig{}, "", "vault token is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveVaultToken(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	cfg.AI.APIKey = "configured"

	require.NoError(t, ApplyVaultSecrets(cfg, nil))
	assert.Equal(t, "configured", cfg.AI.APIKey)
}

// fakeVault serves sys/health and a fixed set of KVv2 secrets.
func fakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized":  true,
				"sealed":       false,
				"version":      "1.15.0",
				"cluster_name": "test",
			})
			return
		}
		data, ok := secrets[strings.TrimPrefix(r.URL.Path, "/v1/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApplyVaultSecretsFromServer(t *testing.T) {
	srv := fakeVault(t, map[string]map[string]any{
		"secret/data/spotghost/api":    {"keys": "k1,k2"},
		"secret/data/spotghost/gemini": {"api_key": "gemini-secret-key"},
		"secret/data/spotghost/db":     {"url": "postgres://spot:pw@db:5432/spotghost"},
	})

	cfg := &Config{Vault: VaultConfig{
		Enabled: true,
		Address: srv.URL,
		Token:   "test-token",
		Secrets: spotghostPaths(),
	}}

	require.NoError(t, ApplyVaultSecrets(cfg, errors.NewDiscardLogger()))
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, "gemini-secret-key", cfg.AI.APIKey)
	assert.Equal(t, "postgres://spot:pw@db:5432/spotghost", cfg.Storage.DatabaseURL)
}

func TestVaultClientMissingSecret(t *testing.T) {
	srv := fakeVault(t, map[string]map[string]any{})

	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: srv.URL, Token: "test-token"}, nil)
	require.NoError(t, err)

	_, err = client.GetSecretV2("secret/data/spotghost/db")
	assert.Error(t, err)

	var nilClient *VaultClient
	_, err = nilClient.GetSecretV2("secret/data/spotghost/db")
	assert.Error(t, err)
}
