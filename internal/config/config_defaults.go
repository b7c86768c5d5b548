package config

import (
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "SPOTGHOST"

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Engine Configuration
	v.SetDefault("engine.defaultMode", "full")
	v.SetDefault("engine.defaultProfile", "") // empty picks the mode's default profile
	v.SetDefault("engine.historyWindowDays", 30)
	v.SetDefault("engine.rulesFile", "")
	v.SetDefault("engine.watchRules", false)
	v.SetDefault("engine.reloadDebounce", time.Second)

	// AI Configuration
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 20*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 2)
	v.SetDefault("ai.temperature", 0.1) // Low temperature for consistent verdicts
	v.SetDefault("ai.useSystemPrompts", true)

	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 2*1024*1024) // 2MB, HTML snapshots can be large
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// Storage Configuration
	v.SetDefault("storage.databaseURL", "")
	v.SetDefault("storage.maxConns", 10)
	v.SetDefault("storage.connectTimeout", 10*time.Second)
	v.SetDefault("storage.queryTimeout", 5*time.Second)
	v.SetDefault("storage.migrateOnStart", true)

	// Cache Configuration
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redisURL", "")
	v.SetDefault("cache.ttl", 6*time.Hour)
	v.SetDefault("cache.prefix", "spotghost:link:")

	// Retention Configuration
	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.schedule", "@every 24h")
	v.SetDefault("retention.maxAgeDays", 90)
	v.SetDefault("retention.runOnStart", true)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.pollInterval", 5*time.Minute)
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.database", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "spotghost")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 5*time.Second)
}
