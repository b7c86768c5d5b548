package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	spotErrors "github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// Verdict labels the model may return.
const (
	VerdictLikelyScam       = "likely_scam"
	VerdictSuspicious       = "suspicious"
	VerdictLikelyLegitimate = "likely_legitimate"
)

const maxFlags = 5

// GeminiProvider implements VerdictProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         *config.AIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	modelTimeout   time.Duration
	baseBackoff    time.Duration
	logger         *spotErrors.Logger
}

var (
	_ VerdictProvider = (*GeminiProvider)(nil)
	_ StatsProvider   = (*GeminiProvider)(nil)
)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.AIConfig, logger *spotErrors.Logger) (*GeminiProvider, error) {
	return newGeminiProvider(context.Background(), cfg, logger, genai.HTTPOptions{})
}

func newGeminiProvider(ctx context.Context, cfg *config.AIConfig, logger *spotErrors.Logger, httpOptions genai.HTTPOptions) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, spotErrors.NewAIError(spotErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker("verdict", cfg.CircuitBreaker, logger),
		modelBreaker:   NewModelCircuitBreaker("verdict", cfg.CircuitBreaker, logger),
		modelTimeout:   10 * time.Second,
		baseBackoff:    time.Second,
		logger:         logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	maxRetries := g.config.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"max_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// backoff doubles per attempt, adds up to 10% jitter and caps at 30s.
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * g.baseBackoff
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Timeouts, refused connections and resets
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case genai.APIError:
			return isRetryableStatus(v.Code)
		case *genai.APIError:
			return isRetryableStatus(v.Code)
		}
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("spotghost.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, spotErrors.NewAIError(spotErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, spotErrors.NewAIError(spotErrors.ErrCodeAIResponseParse, "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// verdictResponse mirrors buildVerdictSchema.
type verdictResponse struct {
	Verdict    string   `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	RedFlags   []string `json:"redFlags"`
	GreenFlags []string `json:"greenFlags"`
}

// GetVerdict implements VerdictProvider
func (g *GeminiProvider) GetVerdict(ctx context.Context, listing types.JobListing) (*types.AIVerdict, *TokenUsage, error) {
	systemPrompt, userPrompt := buildVerdictPrompts(listing)

	out, usage, err := executeAIOperation[verdictResponse](
		g,
		ctx,
		"job_verdict",
		userPrompt,
		systemPrompt,
		g.buildVerdictSchema(),
		attribute.Int("input.description_length", len(listing.Description)),
		attribute.Bool("input.has_url", listing.ApplicationURL != ""),
	)
	if err != nil {
		return nil, nil, err
	}

	return normalizeVerdict(out), usage, nil
}

// normalizeVerdict coerces model output into the documented ranges.
func normalizeVerdict(out verdictResponse) *types.AIVerdict {
	verdict := strings.ToLower(strings.TrimSpace(out.Verdict))
	switch verdict {
	case VerdictLikelyScam, VerdictSuspicious, VerdictLikelyLegitimate:
	default:
		verdict = VerdictSuspicious
	}

	return &types.AIVerdict{
		Verdict:    verdict,
		Confidence: math.Max(0, math.Min(1, out.Confidence)),
		Summary:    strings.TrimSpace(out.Summary),
		RedFlags:   trimFlags(out.RedFlags),
		GreenFlags: trimFlags(out.GreenFlags),
		Source:     types.VerdictSourceGemini,
	}
}

func trimFlags(flags []string) []string {
	out := make([]string, 0, min(len(flags), maxFlags))
	for _, f := range flags {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
		if len(out) == maxFlags {
			break
		}
	}
	return out
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close implements VerdictProvider
func (g *GeminiProvider) Close() error {
	// The genai client holds no resources in single-shot usage
	return nil
}

// buildVerdictSchema creates the structured output schema for verdict requests
func (g *GeminiProvider) buildVerdictSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"verdict": {
					Type: genai.TypeString,
					Enum: []string{VerdictLikelyScam, VerdictSuspicious, VerdictLikelyLegitimate},
				},
				"confidence": {Type: genai.TypeNumber},
				"summary":    {Type: genai.TypeString},
				"redFlags": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"greenFlags": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"verdict", "confidence", "summary", "redFlags", "greenFlags"},
		},
	}

	if g.config.Temperature > 0 {
		temperature := g.config.Temperature
		config.Temperature = &temperature
	}

	return config
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
