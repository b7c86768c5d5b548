package ai

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Observer receives one call per verdict request.
type Observer interface {
	ObserveVerdict(ctx context.Context, duration time.Duration, usage *TokenUsage, err error)
}

// Service adapts a VerdictProvider to the analyzer's verdict source,
// enforcing the per-request timeout.
type Service struct {
	Provider VerdictProvider
	timeout  time.Duration
	observer Observer
	logger   *errors.Logger
}

// NewService creates a new AI service instance for the configured provider
func NewService(cfg *config.AIConfig, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
		"use_system_prompts", cfg.UseSystemPrompts)

	var provider VerdictProvider
	var err error

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg.Timeout, logger), nil
}

// NewServiceWithProvider wraps an existing provider. A zero timeout disables it.
func NewServiceWithProvider(provider VerdictProvider, timeout time.Duration, logger *errors.Logger) *Service {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	return &Service{
		Provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// WithObserver sets the metrics observer and returns s.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// GetVerdict asks the provider for a verdict on listing. Timeouts are
// reported as AI_TIMEOUT errors; the caller decides the fallback.
func (s *Service) GetVerdict(ctx context.Context, listing types.JobListing) (*types.AIVerdict, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	verdict, usage, err := s.Provider.GetVerdict(ctx, listing)
	if err != nil && stdErrors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = errors.NewAIError(errors.ErrCodeAITimeout,
			fmt.Sprintf("AI verdict timed out after %s", s.timeout), err)
	}

	if s.observer != nil {
		s.observer.ObserveVerdict(ctx, time.Since(start), usage, err)
	}
	if err != nil {
		return nil, err
	}

	if verdict != nil && usage != nil {
		s.logger.Debug("AI verdict received",
			"verdict", verdict.Verdict,
			"confidence", verdict.Confidence,
			"total_tokens", usage.TotalTokens)
	}
	return verdict, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Stats returns circuit breaker statistics when the provider exposes them.
func (s *Service) Stats() map[string]any {
	if sp, ok := s.Provider.(StatsProvider); ok {
		return sp.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases the provider.
func (s *Service) Close() error {
	return s.Provider.Close()
}
