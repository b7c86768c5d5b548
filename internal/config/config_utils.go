package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyAIKeyFallbacks()
	c.applyStorageFallbacks()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks splits a comma-separated key list from the environment
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitAndTrim(apiKeysEnv)
		}
	}
}

// applyAIKeyFallbacks accepts the Gemini SDK's own variable names
func (c *Config) applyAIKeyFallbacks() {
	if c.AI.APIKey != "" {
		return
	}
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.AI.APIKey = key
			return
		}
	}
}

// applyStorageFallbacks accepts the conventional DATABASE_URL and REDIS_URL
func (c *Config) applyStorageFallbacks() {
	if c.Storage.DatabaseURL == "" {
		c.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Cache.RedisURL == "" {
		c.Cache.RedisURL = os.Getenv("REDIS_URL")
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		EnvPrefix + "_AI_ENABLED",
		EnvPrefix + "_AI_APIKEY",
		EnvPrefix + "_AI_MODEL",
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_SERVER_HOST",
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_STORAGE_DATABASEURL",
		EnvPrefix + "_CACHE_REDISURL",
		EnvPrefix + "_VAULT_ENABLED",
		"GEMINI_API_KEY", // Legacy support
		"DATABASE_URL",
		"REDIS_URL",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitive(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Default Mode: %s", c.Engine.DefaultMode)
	log.Printf("[CONFIG] History Window: %d days", c.Engine.HistoryWindowDays)
	if c.Engine.RulesFile != "" {
		log.Printf("[CONFIG] Rules File: %s (watch: %t)", c.Engine.RulesFile, c.Engine.WatchRules)
	}
	log.Printf("[CONFIG] AI Enabled: %t", c.AI.Enabled)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	if c.Storage.DatabaseURL != "" {
		log.Println("[CONFIG] Posting Store: postgres")
	} else {
		log.Println("[CONFIG] Posting Store: memory")
	}
	log.Printf("[CONFIG] Result Cache Enabled: %t", c.Cache.Enabled)
	log.Printf("[CONFIG] Retention Enabled: %t", c.Retention.Enabled)
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] =====================================")
}

func isSensitive(envVar string) bool {
	lower := strings.ToLower(envVar)
	return strings.Contains(lower, "key") || strings.Contains(lower, "url")
}
