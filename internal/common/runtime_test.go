package common

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/storage"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{DefaultMode: "full", HistoryWindowDays: 30},
	}
}

func sampleListing() types.JobListing {
	return types.JobListing{
		Title:          "Backend Engineer",
		Company:        "Acme Corp",
		Description:    "We build payment infrastructure in Go. You will design services, review code and mentor engineers across the platform team.",
		Location:       "Berlin, Germany",
		Salary:         "EUR 70000 - 90000",
		ContactEmail:   "jobs@acmecorp.com",
		ApplicationURL: "https://acmecorp.com/careers/backend",
	}
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*types.AnalysisResult
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*types.AnalysisResult)}
}

func (f *fakeCache) key(gen uint64, url string) string {
	return fmt.Sprintf("%d|%s", gen, url)
}

func (f *fakeCache) Get(_ context.Context, gen uint64, url string) (*types.AnalysisResult, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	r, ok := f.entries[f.key(gen, url)]
	return r, ok, nil
}

func (f *fakeCache) Set(_ context.Context, gen uint64, url string, r *types.AnalysisResult, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.key(gen, url)] = r
	f.sets++
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

func TestRuntimeAnalyzePersistsFullMode(t *testing.T) {
	store := storage.NewMemoryStore()
	rt := NewRuntimeWith(testConfig(), nil, store, nil, nil, nil)
	ctx := context.Background()

	first, err := rt.Analyze(ctx, sampleListing(), "", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.Result.Mode != types.ModeFull {
		t.Errorf("Expected default mode full, got %s", first.Result.Mode)
	}
	if first.Result.Profile != "classic" {
		t.Errorf("Expected classic profile, got %s", first.Result.Profile)
	}

	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("Expected 1 stored analysis, got %d", n)
	}

	got, err := store.GetAnalysis(ctx, first.ID)
	if err != nil {
		t.Fatalf("Expected stored analysis to be retrievable: %v", err)
	}
	if got.Result.RiskScore != first.Result.RiskScore {
		t.Errorf("Expected stored risk %d, got %d", first.Result.RiskScore, got.Result.RiskScore)
	}

	if _, err := rt.Analyze(ctx, sampleListing(), "linkonly", ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Expected link-only analysis not to be stored, got %d rows", n)
	}
}

func TestRuntimeAnalyzeRejectsUnknownMode(t *testing.T) {
	rt := NewRuntimeWith(testConfig(), nil, nil, nil, nil, nil)

	_, err := rt.Analyze(context.Background(), sampleListing(), "quick", "")
	if !errors.IsType(err, errors.ErrorTypeConfig) {
		t.Errorf("Expected configuration error, got %v", err)
	}

	_, err = rt.Analyze(context.Background(), sampleListing(), "full", "detailed")
	if !errors.HasCode(err, errors.ErrCodeUnknownProfile) {
		t.Errorf("Expected profile/mode mismatch error, got %v", err)
	}
}

func TestResolveProfile(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.DefaultProfile = "detailed"
	rt := NewRuntimeWith(cfg, nil, nil, nil, nil, nil)

	tests := []struct {
		mode    types.Mode
		profile string
		want    string
	}{
		{types.ModeLinkOnly, "", "detailed"},
		{types.ModeFull, "", ""},
		{types.ModeFull, "classic", "classic"},
	}
	for _, tt := range tests {
		if got := rt.ResolveProfile(tt.mode, tt.profile); got != tt.want {
			t.Errorf("ResolveProfile(%s, %q): expected %q, got %q", tt.mode, tt.profile, tt.want, got)
		}
	}
}

func TestRuntimeAnalyzeLinkUsesCache(t *testing.T) {
	cache := newFakeCache()
	rt := NewRuntimeWith(testConfig(), nil, nil, cache, nil, nil)
	ctx := context.Background()
	url := "http://bit.ly/apply-now"

	first, hit, err := rt.AnalyzeLink(ctx, url)
	if err != nil || hit {
		t.Fatalf("Expected fresh analysis, got hit=%v err=%v", hit, err)
	}
	second, hit, err := rt.AnalyzeLink(ctx, url)
	if err != nil || !hit {
		t.Fatalf("Expected cache hit, got hit=%v err=%v", hit, err)
	}
	if second != first {
		t.Error("Expected the cached result to be served")
	}

	rt.SwapRules(rules.Builtin())
	if _, hit, _ := rt.AnalyzeLink(ctx, url); hit {
		t.Error("Expected a rule swap to invalidate cached results")
	}
	if cache.sets != 2 {
		t.Errorf("Expected 2 cache writes, got %d", cache.sets)
	}
}

func TestRuntimeAnalyzeLinkCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = stderrors.New("redis down")
	rt := NewRuntimeWith(testConfig(), nil, nil, cache, nil, nil)

	result, hit, err := rt.AnalyzeLink(context.Background(), "https://example.com/jobs/1")
	if err != nil {
		t.Fatalf("Expected cache failure to be absorbed, got %v", err)
	}
	if hit || result == nil || result.Mode != types.ModeLinkOnly {
		t.Errorf("Expected a fresh link-only result, got hit=%v result=%+v", hit, result)
	}
}

func TestSwapRulesGeneration(t *testing.T) {
	rt := NewRuntimeWith(testConfig(), nil, nil, nil, nil, nil)
	before, gen := rt.Engine()
	if gen != 1 {
		t.Fatalf("Expected initial generation 1, got %d", gen)
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rt.SwapRules(rules.Builtin())
		}()
	}
	wg.Wait()

	after, gen := rt.Engine()
	if gen != 11 {
		t.Errorf("Expected generation 11 after 10 swaps, got %d", gen)
	}
	if after == before {
		t.Error("Expected a new engine after swapping rules")
	}
}
