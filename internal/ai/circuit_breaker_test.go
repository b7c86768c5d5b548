package ai

import (
	"fmt"
	"testing"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"google.golang.org/genai"
)

func enabledBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	cb := NewAICircuitBreaker("verdict", enabledBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-verdict" {
		t.Errorf("Expected circuit breaker name 'AI-verdict', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewAICircuitBreaker("verdict", enabledBreakerConfig(), nil)
	calls := 0
	failing := func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, fmt.Errorf("backend unavailable")
	}

	for range 3 {
		if _, err := cb.Execute(failing); err == nil {
			t.Fatal("Expected error from failing call")
		}
	}

	if cb.IsHealthy() {
		t.Fatal("Expected breaker to open after 3 failures at ratio 1.0")
	}

	if _, err := cb.Execute(failing); err == nil {
		t.Error("Expected open breaker to reject the call")
	}
	if calls != 3 {
		t.Errorf("Expected the open breaker to short-circuit, got %d calls", calls)
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewAICircuitBreaker("disabled", config.CircuitBreakerConfig{Enabled: false}, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker passes calls straight through
	want := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) { return want, nil })
	if err != nil || got != want {
		t.Errorf("Expected passthrough, got %v, %v", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("Nil breaker should report healthy")
	}
	if enabled := cb.GetStats()["enabled"]; enabled != false {
		t.Errorf("Expected enabled=false, got %v", enabled)
	}

	mb := NewModelCircuitBreaker("disabled", config.CircuitBreakerConfig{}, nil)
	if mb != nil || !mb.IsModelHealthy() {
		t.Error("Expected nil, healthy model breaker")
	}
}
