package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
// Secret Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (SPOTGHOST_AI_APIKEY, SPOTGHOST_STORAGE_DATABASEURL, etc.)
// 4. Default values - Lowest priority
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Engine        EngineConfig        `mapstructure:"engine"`
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Retention     RetentionConfig     `mapstructure:"retention"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// EngineConfig controls scoring defaults and the rule overlay.
type EngineConfig struct {
	DefaultMode       string        `mapstructure:"defaultMode"`
	DefaultProfile    string        `mapstructure:"defaultProfile"`
	HistoryWindowDays int           `mapstructure:"historyWindowDays"`
	RulesFile         string        `mapstructure:"rulesFile"`
	WatchRules        bool          `mapstructure:"watchRules"`
	ReloadDebounce    time.Duration `mapstructure:"reloadDebounce"`
}

// HistoryWindow returns the duplicate-check lookback as a duration.
func (e EngineConfig) HistoryWindow() time.Duration {
	return time.Duration(e.HistoryWindowDays) * 24 * time.Hour
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// StorageConfig selects the posting store. An empty DatabaseURL keeps
// history in memory.
type StorageConfig struct {
	DatabaseURL    string        `mapstructure:"databaseURL"`
	MaxConns       int32         `mapstructure:"maxConns"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
	QueryTimeout   time.Duration `mapstructure:"queryTimeout"`
	MigrateOnStart bool          `mapstructure:"migrateOnStart"`
}

// CacheConfig holds the link-analysis result cache settings
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redisURL"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// RetentionConfig drives the scheduled purge of old postings
type RetentionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Schedule   string `mapstructure:"schedule"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	RunOnStart bool   `mapstructure:"runOnStart"`
}

// MaxAge returns the retention horizon as a duration.
func (r RetentionConfig) MaxAge() time.Duration {
	return time.Duration(r.MaxAgeDays) * 24 * time.Hour
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] No .env file found, using process environment")
	} else {
		log.Println("[CONFIG] Loaded environment overrides from .env")
	}

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Printf("[CONFIG] Configured environment variable handling with prefix '%s'", EnvPrefix)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/spotghost/")
	v.AddConfigPath("$HOME/.spotghost")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/spotghost/, $HOME/.spotghost, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}

	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return config, nil
}

// decode unmarshals v and applies the environment fallbacks.
func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")
	return &config, nil
}

var (
	validModes    = []string{"full", "linkonly"}
	validProfiles = []string{"classic", "detailed"}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := parseLogLevel(c.App.LogLevel); err != nil {
		return err
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}

	if !slices.Contains(validModes, c.Engine.DefaultMode) {
		return fmt.Errorf("invalid default mode: %s (expected one of %v)", c.Engine.DefaultMode, validModes)
	}

	if c.Engine.DefaultProfile != "" && !slices.Contains(validProfiles, c.Engine.DefaultProfile) {
		return fmt.Errorf("invalid default profile: %s (expected one of %v)", c.Engine.DefaultProfile, validProfiles)
	}

	if c.Engine.HistoryWindowDays <= 0 {
		return fmt.Errorf("history window must be at least one day")
	}

	if err := c.AI.Validate(); err != nil {
		return fmt.Errorf("AI configuration error: %w", err)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate limit requests per minute must be positive when rate limiting is enabled")
	}

	if c.Storage.MaxConns < 0 {
		return fmt.Errorf("storage max connections cannot be negative")
	}

	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache is enabled but no redis URL is configured")
	}

	if c.Retention.Enabled {
		if c.Retention.MaxAgeDays <= 0 {
			return fmt.Errorf("retention max age must be at least one day")
		}
		if c.Retention.Schedule == "" {
			return fmt.Errorf("retention schedule is required when retention is enabled")
		}
	}

	return nil
}

func parseLogLevel(level string) (string, error) {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return strings.ToLower(level), nil
	default:
		return "", fmt.Errorf("invalid log level: %s", level)
	}
}
