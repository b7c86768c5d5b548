package config

import (
	"fmt"
	"time"
)

// AIConfig holds AI verdict service configuration
type AIConfig struct {
	Enabled          bool                 `mapstructure:"enabled"`
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          time.Duration        `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       int                  `mapstructure:"maxRetries"`
	Temperature      float32              `mapstructure:"temperature"`
	UseSystemPrompts bool                 `mapstructure:"useSystemPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// Validate checks the AI section. A disabled section is always valid.
func (a AIConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.Provider != "gemini" {
		return fmt.Errorf("unsupported AI provider: %s", a.Provider)
	}
	if a.APIKey == "" {
		return fmt.Errorf("AI API key is required when AI is enabled (set %s_AI_APIKEY environment variable)", EnvPrefix)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		return fmt.Errorf("AI temperature must be between 0 and 2")
	}
	if a.MaxRetries < 0 {
		return fmt.Errorf("AI max retries cannot be negative")
	}
	cb := a.CircuitBreaker
	if cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
		return fmt.Errorf("circuit breaker failure threshold must be in (0, 1]")
	}
	return nil
}
