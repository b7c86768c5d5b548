package server

import (
	"net/http"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/analyzer"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/extract"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "spotghost.api"

// analyzeHandler scores a listing and returns the stored analysis envelope.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer(tracerName).Start(r.Context(), "api.analyze")
	defer span.End()

	var req AnalyzeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.Int("request.description_length", len(req.Listing.Description)),
		attribute.String("request.mode", req.Mode),
	)

	stored, err := s.runtime.Analyze(ctx, req.Listing, req.Mode, req.Profile)
	if err != nil {
		span.RecordError(err)
		s.writeAppError(w, err)
		return
	}

	span.SetAttributes(attribute.Int("risk_score", stored.Result.RiskScore))
	writeJSON(w, http.StatusOK, stored)
}

// linkHandler scores a bare URL.
func (s *Server) linkHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer(tracerName).Start(r.Context(), "api.analyze_link")
	defer span.End()

	var req LinkRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, "url field is required", http.StatusBadRequest)
		return
	}

	result, cached, err := s.runtime.AnalyzeLink(ctx, req.URL)
	if err != nil {
		span.RecordError(err)
		s.writeAppError(w, err)
		return
	}

	span.SetAttributes(attribute.Bool("cache_hit", cached), attribute.Int("risk_score", result.RiskScore))
	writeJSON(w, http.StatusOK, LinkResponse{Result: result, Cached: cached})
}

// htmlHandler extracts a listing from a page snapshot and analyzes it.
func (s *Server) htmlHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer(tracerName).Start(r.Context(), "api.analyze_html")
	defer span.End()

	var req HTMLRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, "html field is required", http.StatusBadRequest)
		return
	}

	listing, err := extract.FromHTML(strings.NewReader(req.HTML), req.SourceURL)
	if err != nil {
		span.RecordError(err)
		s.writeAppError(w, err)
		return
	}

	stored, err := s.runtime.Analyze(ctx, listing, req.Mode, req.Profile)
	if err != nil {
		span.RecordError(err)
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// getAnalysisHandler returns a previously stored analysis by id.
func (s *Server) getAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, "id must be a UUID", http.StatusBadRequest)
		return
	}

	store := s.runtime.Store()
	if store == nil {
		writeErrorResponse(w, errors.ErrCodeNotFound, "analysis history is disabled", http.StatusNotFound)
		return
	}

	stored, err := store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// recommendationsHandler rebuilds recommendations from a posted result.
func (s *Server) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var result types.AnalysisResult
	if err := parseJSONRequest(r, &result); err != nil {
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if result.SafetyScore < 0 || result.SafetyScore > 100 {
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, "safetyScore must be between 0 and 100", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, analyzer.BuildRecommendations(&result))
}
