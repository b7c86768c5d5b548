package common

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/ai"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/analyzer"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/observability"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/storage"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// CollaboratorStore names persistence failures in collaborator metrics.
const CollaboratorStore = "store"

// LinkCache caches link-only results keyed by rule generation and URL.
// storage.ResultCache implements it.
type LinkCache interface {
	Get(ctx context.Context, generation uint64, rawURL string) (*types.AnalysisResult, bool, error)
	Set(ctx context.Context, generation uint64, rawURL string, result *types.AnalysisResult, now time.Time) error
	Ping(ctx context.Context) error
	Close() error
}

// RuntimeOptions adjusts how NewRuntime wires collaborators.
type RuntimeOptions struct {
	// NoHistory skips the posting store entirely: no duplicate check, no persistence.
	NoHistory bool
	// NoCache skips the link result cache even when configured.
	NoCache bool

	Metrics *observability.Metrics
	Tracer  oteltrace.Tracer
}

type engineState struct {
	engine     *analyzer.Engine
	generation uint64
}

// Runtime owns the collaborators shared by the CLI and the HTTP server and
// the engine built on top of them. The engine can be replaced while requests
// are in flight; each request sees one consistent engine.
type Runtime struct {
	Config *config.Config
	Logger *errors.Logger

	store   storage.Store
	cache   LinkCache
	ai      *ai.Service
	metrics *observability.Metrics
	tracer  oteltrace.Tracer
	now     func() time.Time

	state atomic.Pointer[engineState]
}

// NewRuntime loads rules and connects the configured store, cache and AI
// service. A cache that cannot be reached is logged and skipped; a store or
// rules failure is returned.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts RuntimeOptions) (*Runtime, error) {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}

	rs, err := rules.LoadFile(cfg.Engine.RulesFile)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		now:     time.Now,
	}
	if rt.tracer == nil {
		rt.tracer = noop.NewTracerProvider().Tracer("spotghost")
	}

	if !opts.NoHistory {
		if rt.store, err = storage.Open(ctx, cfg.Storage, logger); err != nil {
			return nil, err
		}
	}

	if cfg.Cache.Enabled && !opts.NoCache {
		cache, err := storage.NewResultCache(ctx, cfg.Cache)
		if err != nil {
			logger.LogError(err, "Link cache unavailable, continuing without it")
		} else {
			rt.cache = cache
		}
	}

	if cfg.AI.Enabled {
		svc, err := ai.NewService(&cfg.AI, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.ai = svc.WithObserver(opts.Metrics)
	}

	rt.state.Store(&engineState{engine: rt.newEngine(rs), generation: 1})
	logger.Info("Analysis runtime ready",
		"rules", rs.Size(),
		"history", rt.store != nil,
		"cache", rt.cache != nil,
		"ai", rt.ai != nil)
	return rt, nil
}

// NewRuntimeWith assembles a runtime from existing collaborators. Nil
// collaborators are left out.
func NewRuntimeWith(cfg *config.Config, logger *errors.Logger, store storage.Store, cache LinkCache, rs *rules.Set, metrics *observability.Metrics) *Runtime {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		store:   store,
		cache:   cache,
		metrics: metrics,
		tracer:  noop.NewTracerProvider().Tracer("spotghost"),
		now:     time.Now,
	}
	if rs == nil {
		rs = rules.Builtin()
	}
	rt.state.Store(&engineState{engine: rt.newEngine(rs), generation: 1})
	return rt
}

func (rt *Runtime) newEngine(rs *rules.Set) *analyzer.Engine {
	opts := analyzer.Options{
		Rules:               rs,
		HistoryWindow:       rt.Config.Engine.HistoryWindow(),
		Logger:              rt.Logger,
		OnCollaboratorError: rt.metrics.CollaboratorFailed,
	}
	if rt.store != nil {
		opts.Store = rt.store
	}
	if rt.ai != nil {
		opts.Verdicts = rt.ai
	}
	return analyzer.New(opts)
}

// Engine returns the current engine and its rule generation.
func (rt *Runtime) Engine() (*analyzer.Engine, uint64) {
	s := rt.state.Load()
	return s.engine, s.generation
}

// SwapRules installs rs and returns the new generation. Cached link results
// from earlier generations are no longer served.
func (rt *Runtime) SwapRules(rs *rules.Set) uint64 {
	for {
		old := rt.state.Load()
		next := &engineState{engine: old.engine.WithRules(rs), generation: old.generation + 1}
		if rt.state.CompareAndSwap(old, next) {
			rt.Logger.Info("Rules swapped", "generation", next.generation, "rules", rs.Size())
			return next.generation
		}
	}
}

// Store returns the posting store, or nil when history is disabled.
func (rt *Runtime) Store() storage.Store { return rt.store }

// Cache returns the link cache, or nil.
func (rt *Runtime) Cache() LinkCache { return rt.cache }

// AI returns the verdict service, or nil.
func (rt *Runtime) AI() *ai.Service { return rt.ai }

// Metrics returns the metrics sink. It may be nil.
func (rt *Runtime) Metrics() *observability.Metrics { return rt.metrics }

// ResolveMode applies the configured default to an empty mode.
func (rt *Runtime) ResolveMode(mode string) (types.Mode, error) {
	if mode == "" {
		mode = rt.Config.Engine.DefaultMode
	}
	return analyzer.ParseMode(mode)
}

// ResolveProfile applies the configured default profile when it fits mode.
func (rt *Runtime) ResolveProfile(mode types.Mode, profile string) string {
	if profile != "" {
		return profile
	}
	def := rt.Config.Engine.DefaultProfile
	if def == "" {
		return ""
	}
	if p, err := analyzer.LookupProfile(def); err == nil && p.Mode == mode {
		return def
	}
	return ""
}

// Analyze runs one analysis and, for full-mode results, records the listing
// in the posting store after scoring so it never counts against itself. A
// failed save is logged and counted; the analysis is still returned.
func (rt *Runtime) Analyze(ctx context.Context, listing types.JobListing, mode, profile string) (*types.StoredAnalysis, error) {
	m, err := rt.ResolveMode(mode)
	if err != nil {
		return nil, err
	}
	profile = rt.ResolveProfile(m, profile)

	ctx, span := rt.tracer.Start(ctx, "analysis.analyze",
		oteltrace.WithAttributes(attribute.String("mode", string(m)), attribute.String("profile", profile)))
	defer span.End()

	engine, _ := rt.Engine()
	start := time.Now()
	result, err := engine.Analyze(ctx, listing, m, profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	rt.metrics.RecordAnalysis(ctx, result, time.Since(start))
	span.SetAttributes(attribute.Int("risk_score", result.RiskScore), attribute.String("risk_level", string(result.RiskLevel)))

	stored := types.NewStoredAnalysis(listing, result, rt.now())
	if m == types.ModeFull && rt.store != nil {
		rt.save(ctx, stored)
	}
	return &stored, nil
}

func (rt *Runtime) save(ctx context.Context, a types.StoredAnalysis) {
	ctx, span := rt.tracer.Start(ctx, "storage.save_analysis")
	defer span.End()

	if err := rt.store.SaveAnalysis(ctx, a); err != nil {
		span.RecordError(err)
		rt.Logger.Warn("Failed to persist analysis", "id", a.ID.String(), "error", err.Error())
		rt.metrics.CollaboratorFailed(ctx, CollaboratorStore, err)
	}
}

// AnalyzeLink scores a bare URL, serving and filling the link cache when
// one is configured. Cache failures fall through to a fresh analysis.
func (rt *Runtime) AnalyzeLink(ctx context.Context, rawURL string) (*types.AnalysisResult, bool, error) {
	ctx, span := rt.tracer.Start(ctx, "analysis.link")
	defer span.End()

	engine, generation := rt.Engine()

	if rt.cache != nil {
		cached, ok, err := rt.cache.Get(ctx, generation, rawURL)
		if err != nil {
			rt.Logger.Warn("Link cache lookup failed", "error", err.Error())
			rt.metrics.CollaboratorFailed(ctx, "cache", err)
		} else {
			rt.metrics.RecordCacheLookup(ctx, ok)
			if ok {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return cached, true, nil
			}
		}
	}

	start := time.Now()
	result := engine.AnalyzeLinkOnly(rawURL)
	rt.metrics.RecordAnalysis(ctx, result, time.Since(start))

	if rt.cache != nil {
		if err := rt.cache.Set(ctx, generation, rawURL, result, rt.now()); err != nil {
			rt.Logger.Warn("Link cache write failed", "error", err.Error())
			rt.metrics.CollaboratorFailed(ctx, "cache", err)
		}
	}
	return result, false, nil
}

// Close releases every collaborator. It is safe to call more than once.
func (rt *Runtime) Close() {
	if rt.cache != nil {
		if err := rt.cache.Close(); err != nil {
			rt.Logger.Warn("Failed to close link cache", "error", err)
		}
		rt.cache = nil
	}
	if rt.ai != nil {
		if err := rt.ai.Close(); err != nil {
			rt.Logger.Warn("Failed to close AI service", "error", err)
		}
		rt.ai = nil
	}
	if rt.store != nil {
		rt.store.Close()
		rt.store = nil
	}
}
