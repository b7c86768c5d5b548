package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/ai"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for spotghost. A nil *Metrics records nothing.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    metric.Int64Counter
	RiskScore        metric.Int64Histogram
	AnalysisDuration metric.Float64Histogram

	// AI verdict metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Collaborators and infrastructure
	CollaboratorFailures metric.Int64Counter
	CacheLookups         metric.Int64Counter
	PurgedPostings       metric.Int64Counter
	RuleReloads          metric.Int64Counter
	RateLimitHits        metric.Int64Counter
}

var _ ai.Observer = (*Metrics)(nil)

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AnalysesTotal, err = meter.Int64Counter(
		"spotghost_analyses_total",
		metric.WithDescription("Total number of completed analyses"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analyses metric: %w", err)
	}

	if m.RiskScore, err = meter.Int64Histogram(
		"spotghost_risk_score",
		metric.WithDescription("Distribution of final risk scores"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create risk score metric: %w", err)
	}

	if m.AnalysisDuration, err = meter.Float64Histogram(
		"spotghost_analysis_duration_seconds",
		metric.WithDescription("Time spent analysing a listing, collaborators included"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis duration metric: %w", err)
	}

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"spotghost_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting for AI verdicts"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	if m.AIRequestCount, err = meter.Int64Counter(
		"spotghost_ai_requests_total",
		metric.WithDescription("Total number of AI verdict requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	if m.AIErrorCount, err = meter.Int64Counter(
		"spotghost_ai_errors_total",
		metric.WithDescription("Total number of failed AI verdict requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"spotghost_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.CollaboratorFailures, err = meter.Int64Counter(
		"spotghost_collaborator_failures_total",
		metric.WithDescription("Store or verdict failures absorbed by an analysis"),
	); err != nil {
		return nil, fmt.Errorf("failed to create collaborator failures metric: %w", err)
	}

	if m.CacheLookups, err = meter.Int64Counter(
		"spotghost_link_cache_lookups_total",
		metric.WithDescription("Link result cache lookups by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookups metric: %w", err)
	}

	if m.PurgedPostings, err = meter.Int64Counter(
		"spotghost_purged_postings_total",
		metric.WithDescription("Postings deleted by the retention job"),
	); err != nil {
		return nil, fmt.Errorf("failed to create purged postings metric: %w", err)
	}

	if m.RuleReloads, err = meter.Int64Counter(
		"spotghost_rule_reloads_total",
		metric.WithDescription("Rule file reloads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rule reloads metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"spotghost_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// RecordAnalysis records one completed analysis.
func (m *Metrics) RecordAnalysis(ctx context.Context, r *types.AnalysisResult, duration time.Duration) {
	if m == nil || r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", string(r.Mode)),
		attribute.String("risk_level", string(r.RiskLevel)),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.RiskScore.Record(ctx, int64(r.RiskScore), metric.WithAttributes(attribute.String("mode", string(r.Mode))))
	m.AnalysisDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("mode", string(r.Mode))))
}

// ObserveVerdict records one AI verdict request.
func (m *Metrics) ObserveVerdict(ctx context.Context, duration time.Duration, usage *ai.TokenUsage, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", "job_verdict"),
		attribute.Bool("success", err == nil),
	}
	m.AIProcessingTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if usage == nil {
		return
	}

	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(attribute.String("token_type", tt.tokenType)))
	}
}

// CollaboratorFailed counts a store or verdict failure. Its signature
// matches analyzer.Options.OnCollaboratorError.
func (m *Metrics) CollaboratorFailed(ctx context.Context, collaborator string, _ error) {
	if m == nil {
		return
	}
	m.CollaboratorFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("collaborator", collaborator)))
}

// RecordCacheLookup counts a link cache hit or miss.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordPurge matches scheduler.PurgeFunc.
func (m *Metrics) RecordPurge(ctx context.Context, deleted int64, err error) {
	if m == nil || err != nil {
		return
	}
	m.PurgedPostings.Add(ctx, deleted)
}

func (m *Metrics) RecordRulesReload(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.RuleReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordRateLimitHit counts a rejected request by limiter kind (ip or api_key).
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	if m == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}
