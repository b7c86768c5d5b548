package ai

import (
	"context"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// VerdictProvider asks a model for an opinion on a listing.
// Token usage may be nil when the backend does not report it.
type VerdictProvider interface {
	GetVerdict(ctx context.Context, listing types.JobListing) (*types.AIVerdict, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// StatsProvider is implemented by providers that guard calls with circuit breakers.
type StatsProvider interface {
	GetCircuitBreakerStats() map[string]any
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
