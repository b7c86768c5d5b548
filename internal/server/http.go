package server

import (
	"sync/atomic"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/observability"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/scheduler"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Listing types.JobListing `json:"listing"`
	Mode    string           `json:"mode,omitempty"`
	Profile string           `json:"profile,omitempty"`
}

// LinkRequest is the body of POST /analyze/link.
type LinkRequest struct {
	URL string `json:"url"`
}

// LinkResponse carries a link-only result and whether it came from the cache.
type LinkResponse struct {
	Result *types.AnalysisResult `json:"result"`
	Cached bool                  `json:"cached"`
}

// HTMLRequest is the body of POST /analyze/html.
type HTMLRequest struct {
	HTML      string `json:"html"`
	SourceURL string `json:"sourceUrl"`
	Mode      string `json:"mode,omitempty"`
	Profile   string `json:"profile,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	runtime *common.Runtime
	om      *observability.ObservabilityManager
	metrics *observability.Metrics

	// API Authentication; replaced wholesale when keys rotate
	apiKeys atomic.Pointer[map[string]struct{}]

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Background jobs, set by Start
	rulesWatcher *rules.Watcher
	purger       *scheduler.Scheduler
	vaultWatcher *VaultWatcher

	// Logger
	Logger *errors.Logger
}

// NewServer creates a server around rt. A nil om disables tracing and metrics.
func NewServer(rt *common.Runtime, om *observability.ObservabilityManager, version string) *Server {
	appCfg := rt.Config
	logger := rt.Logger

	if om == nil {
		om, _ = observability.NewObservabilityManager(observability.ObservabilityConfig{}, logger)
	}

	var rateLimiter *RateLimiter
	rateLimit := appCfg.Server.RateLimit
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(rateLimit.RequestsPerMin, rateLimit.BurstCapacity, logger)
	}

	s := &Server{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		AppConfig:      appCfg,
		runtime:        rt,
		om:             om,
		metrics:        rt.Metrics(),
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxRequestSize: appCfg.Server.MaxRequestSize,
		RateLimit:      &rateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
	s.SetAPIKeys(appCfg.Server.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty list disables authentication.
func (s *Server) SetAPIKeys(keys []string) {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			set[key] = struct{}{}
		}
	}
	s.apiKeys.Store(&set)
}

func (s *Server) keys() map[string]struct{} {
	return *s.apiKeys.Load()
}
