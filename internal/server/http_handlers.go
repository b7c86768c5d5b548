package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if t := s.AppConfig.Observability.HealthCheck.Timeout; t > 0 {
		return t
	}
	return 5 * time.Second
}

// healthHandler reports the store, cache and AI verdict service. Any
// unavailable collaborator marks the service degraded; analyses still run
// without it.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "spotghost",
		"version": s.Version,
	}
	overallHealthy := true

	store := map[string]any{"enabled": false}
	if st := s.runtime.Store(); st != nil {
		store = map[string]any{"enabled": true, "backend": st.Backend(), "available": true}
		if err := st.Ping(ctx); err != nil {
			store["available"] = false
			store["error"] = err.Error()
			overallHealthy = false
		}
	}
	response["store"] = store

	cache := map[string]any{"enabled": false}
	if c := s.runtime.Cache(); c != nil {
		cache = map[string]any{"enabled": true, "available": true}
		if err := c.Ping(ctx); err != nil {
			cache["available"] = false
			cache["error"] = err.Error()
			overallHealthy = false
		}
	}
	response["cache"] = cache

	if svc := s.runtime.AI(); svc != nil {
		info := svc.GetModelInfo(ctx)
		response["ai_model"] = info
		response["circuit_breakers"] = svc.Stats()
		if info != nil && !info.Available {
			overallHealthy = false
		}
	} else {
		response["ai_model"] = map[string]any{"enabled": false}
	}

	status := http.StatusOK
	if !overallHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	engine, generation := s.runtime.Engine()

	response := map[string]any{
		"service": "spotghost",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys":               len(s.keys()),
		},
		"rules": map[string]any{
			"size":       engine.Rules().Size(),
			"generation": generation,
			"file":       s.AppConfig.Engine.RulesFile,
			"watching":   s.rulesWatcher != nil && s.rulesWatcher.IsRunning(),
		},
	}

	if st := s.runtime.Store(); st != nil {
		storeStats := map[string]any{"backend": st.Backend()}
		if n, err := st.Count(r.Context()); err == nil {
			storeStats["analyses"] = n
		} else {
			storeStats["error"] = err.Error()
		}
		response["store"] = storeStats
	}

	if svc := s.runtime.AI(); svc != nil {
		response["ai"] = svc.Stats()
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.vaultWatcher != nil {
		response["vault_watcher"] = s.vaultWatcher.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// statusFor maps an application error to an HTTP status.
func statusFor(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeConfig:
		return http.StatusBadRequest
	case errors.ErrorTypeStorage:
		if appErr.Code == errors.ErrCodeNotFound {
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}

// writeAppError writes err using its code as the error field. Unexpected
// errors are logged and their details withheld.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.ErrCodeInternal
	message := "Internal server error"
	if appErr, ok := errors.As(err); ok {
		code = appErr.Code
		if status != http.StatusInternalServerError {
			message = appErr.Message
		}
	}
	if status == http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed")
	}
	writeErrorResponse(w, code, message, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
