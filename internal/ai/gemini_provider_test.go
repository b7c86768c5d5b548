package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestNormalizeVerdict(t *testing.T) {
	tests := []struct {
		name           string
		in             verdictResponse
		wantVerdict    string
		wantConfidence float64
		wantRed        int
	}{
		{
			name:           "well formed",
			in:             verdictResponse{Verdict: "likely_scam", Confidence: 0.92, RedFlags: []string{"asks for a fee"}},
			wantVerdict:    VerdictLikelyScam,
			wantConfidence: 0.92,
			wantRed:        1,
		},
		{
			name:           "case and whitespace",
			in:             verdictResponse{Verdict: "  Likely_Legitimate ", Confidence: 0.7},
			wantVerdict:    VerdictLikelyLegitimate,
			wantConfidence: 0.7,
		},
		{
			name:           "unknown label becomes suspicious",
			in:             verdictResponse{Verdict: "scam!!", Confidence: 0.5},
			wantVerdict:    VerdictSuspicious,
			wantConfidence: 0.5,
		},
		{
			name:           "confidence clamped high",
			in:             verdictResponse{Verdict: "suspicious", Confidence: 7},
			wantVerdict:    VerdictSuspicious,
			wantConfidence: 1,
		},
		{
			name:           "confidence clamped low",
			in:             verdictResponse{Verdict: "suspicious", Confidence: -0.2},
			wantVerdict:    VerdictSuspicious,
			wantConfidence: 0,
		},
		{
			name: "flags trimmed and capped",
			in: verdictResponse{
				Verdict:  "likely_scam",
				RedFlags: []string{"a", " ", "b", "c", "d", "e", "f", "g"},
			},
			wantVerdict: VerdictLikelyScam,
			wantRed:     maxFlags,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := normalizeVerdict(tt.in)
			if v.Verdict != tt.wantVerdict {
				t.Errorf("Expected verdict %s, got %s", tt.wantVerdict, v.Verdict)
			}
			if v.Confidence != tt.wantConfidence {
				t.Errorf("Expected confidence %.2f, got %.2f", tt.wantConfidence, v.Confidence)
			}
			if len(v.RedFlags) != tt.wantRed {
				t.Errorf("Expected %d red flags, got %v", tt.wantRed, v.RedFlags)
			}
			if v.GreenFlags == nil {
				t.Error("Expected non-nil green flags")
			}
			if v.Source != types.VerdictSourceGemini {
				t.Errorf("Expected gemini source, got %s", v.Source)
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", fmt.Errorf("bad input"), false},
		{"network", fmt.Errorf("call: %w", timeoutErr{}), true},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"googleapi 503", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusServiceUnavailable}), true},
		{"googleapi 400", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai 500", &genai.APIError{Code: http.StatusInternalServerError}, true},
		{"genai 403", fmt.Errorf("wrapped: %w", &genai.APIError{Code: http.StatusForbidden}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBackoffIsCapped(t *testing.T) {
	g := &GeminiProvider{baseBackoff: time.Second}

	if d := g.backoff(1); d < time.Second || d > 1100*time.Millisecond {
		t.Errorf("Expected ~1s for the first retry, got %s", d)
	}
	if d := g.backoff(3); d < 4*time.Second || d > 4400*time.Millisecond {
		t.Errorf("Expected ~4s for the third retry, got %s", d)
	}
	if d := g.backoff(10); d != 30*time.Second {
		t.Errorf("Expected the 30s cap, got %s", d)
	}
}

func TestBuildVerdictPrompts(t *testing.T) {
	listing := types.JobListing{
		Title:          "Data Entry Clerk",
		Company:        "Quick Cash Ltd",
		Description:    strings.Repeat("x", maxPromptDescription+50),
		ContactEmail:   "hr@gmail.com",
		ApplicationURL: "https://bit.ly/apply",
	}

	system, user := buildVerdictPrompts(listing)

	if system != DefaultSystemPrompt {
		t.Error("Expected default system prompt")
	}
	for _, want := range []string{"Title: Data Entry Clerk", "Company: Quick Cash Ltd", "Contact email: hr@gmail.com", "Application URL: https://bit.ly/apply"} {
		if !strings.Contains(user, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
	if strings.Contains(user, "Salary:") {
		t.Error("Expected empty fields to be omitted")
	}
	if strings.Contains(user, strings.Repeat("x", maxPromptDescription+1)) {
		t.Error("Expected description to be truncated")
	}
}

func TestBuildVerdictSchema(t *testing.T) {
	g := &GeminiProvider{config: &config.AIConfig{Temperature: 0.1}}
	cfg := g.buildVerdictSchema()

	if cfg.ResponseMIMEType != "application/json" {
		t.Errorf("Expected JSON MIME type, got %s", cfg.ResponseMIMEType)
	}
	if len(cfg.ResponseSchema.Required) != 5 {
		t.Errorf("Expected 5 required fields, got %v", cfg.ResponseSchema.Required)
	}
	if got := cfg.ResponseSchema.Properties["verdict"].Enum; len(got) != 3 {
		t.Errorf("Expected 3 verdict labels, got %v", got)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %v", cfg.Temperature)
	}

	g.config.Temperature = 0
	if g.buildVerdictSchema().Temperature != nil {
		t.Error("Expected zero temperature to be left to the model default")
	}
}

func TestExtractTokenUsage(t *testing.T) {
	if extractTokenUsage(nil) != nil {
		t.Error("Expected nil usage for nil response")
	}
	usage := extractTokenUsage(&genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 30,
			TotalTokenCount:      150,
		},
	})
	if usage == nil || usage.InputTokens != 120 || usage.OutputTokens != 30 || usage.TotalTokens != 150 {
		t.Errorf("Unexpected usage %+v", usage)
	}
}

// fakeGemini answers generateContent with body and counts requests.
func fakeGemini(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		Enabled:          true,
		Provider:         "gemini",
		Model:            "gemini-2.0-flash",
		APIKey:           "test-key",
		Timeout:          5 * time.Second,
		MaxRetries:       2,
		Temperature:      0.1,
		UseSystemPrompts: true,
	}
}

func TestGeminiProviderGetVerdict(t *testing.T) {
	text, _ := json.Marshal(verdictResponse{
		Verdict:    "likely_scam",
		Confidence: 0.9,
		Summary:    "Asks for an upfront fee.",
		RedFlags:   []string{"training fee"},
		GreenFlags: []string{},
	})
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": string(text)}},
			},
		}},
		"usageMetadata": map[string]any{
			"promptTokenCount":     100,
			"candidatesTokenCount": 20,
			"totalTokenCount":      120,
		},
	})
	srv, calls := fakeGemini(t, http.StatusOK, string(body))

	g, err := newGeminiProvider(context.Background(), testAIConfig(), errors.NewDiscardLogger(), genai.HTTPOptions{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	v, usage, err := g.GetVerdict(context.Background(), types.JobListing{Title: "Data Entry Clerk"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.Verdict != VerdictLikelyScam || v.Confidence != 0.9 || len(v.RedFlags) != 1 {
		t.Errorf("Unexpected verdict %+v", v)
	}
	if usage == nil || usage.TotalTokens != 120 {
		t.Errorf("Expected token usage, got %+v", usage)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 request, got %d", calls.Load())
	}
}

func TestGeminiProviderDoesNotRetryClientErrors(t *testing.T) {
	srv, calls := fakeGemini(t, http.StatusBadRequest, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)

	g, err := newGeminiProvider(context.Background(), testAIConfig(), errors.NewDiscardLogger(), genai.HTTPOptions{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, _, err = g.GetVerdict(context.Background(), types.JobListing{Title: "Clerk"})
	if !errors.HasCode(err, errors.ErrCodeAIServiceFailed) {
		t.Errorf("Expected AI_SERVICE_FAILED, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected no retries for a 400, got %d requests", calls.Load())
	}
}

func TestGeminiProviderRejectsMalformedOutput(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"not json"}]}}]}`
	srv, _ := fakeGemini(t, http.StatusOK, body)

	g, err := newGeminiProvider(context.Background(), testAIConfig(), errors.NewDiscardLogger(), genai.HTTPOptions{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, _, err = g.GetVerdict(context.Background(), types.JobListing{Title: "Clerk"})
	if !errors.HasCode(err, errors.ErrCodeAIResponseParse) {
		t.Errorf("Expected AI_RESPONSE_PARSE_FAILED, got %v", err)
	}
}
