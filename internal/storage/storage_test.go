package storage

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
	"github.com/google/uuid"
)

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func stored(company, title string, at time.Time) types.StoredAnalysis {
	a := types.NewStoredAnalysis(
		types.JobListing{Title: title, Company: company, Description: title + " description"},
		&types.AnalysisResult{Mode: types.ModeFull, RiskScore: 20, SafetyScore: 80, RiskLevel: types.RiskLevelVeryLow},
		at,
	)
	return a
}

func TestMemoryStoreHistory(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	for _, a := range []types.StoredAnalysis{
		stored("Acme Corp", "third", base.Add(48*time.Hour)),
		stored("ACME corp.", "first", base),
		stored("Acme Corp", "second", base.Add(24*time.Hour)),
		stored("Acme Corp", "too old", base.Add(-40*24*time.Hour)),
		stored("Other Inc", "other", base),
	} {
		if err := m.SaveAnalysis(ctx, a); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
	}

	got, err := m.FindRecentPostingsByCompany(ctx, "acmecorp", base.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var titles []string
	for _, p := range got {
		titles = append(titles, p.Title)
	}
	if want := []string{"first", "second", "third"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("Expected %v, got %v", want, titles)
	}
}

func TestMemoryStoreGetAndPurge(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	old := stored("Acme", "old", base.Add(-100*24*time.Hour))
	fresh := stored("Acme", "fresh", base)
	_ = m.SaveAnalysis(ctx, old)
	_ = m.SaveAnalysis(ctx, fresh)

	got, err := m.GetAnalysis(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Listing.Title != "fresh" || got.Result.RiskScore != 20 {
		t.Errorf("Unexpected analysis %+v", got)
	}

	n, err := m.PurgeBefore(ctx, base.Add(-90*24*time.Hour))
	if err != nil || n != 1 {
		t.Errorf("Expected 1 purged, got %d (%v)", n, err)
	}

	_, err = m.GetAnalysis(ctx, old.ID)
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Expected NOT_FOUND after purge, got %v", err)
	}
	if !errors.IsType(err, errors.ErrorTypeStorage) {
		t.Errorf("Expected storage error type, got %v", err)
	}

	if count, _ := m.Count(ctx); count != 1 {
		t.Errorf("Expected 1 remaining, got %d", count)
	}
}

func TestOpenWithoutDatabaseUsesMemory(t *testing.T) {
	s, err := Open(context.Background(), config.StorageConfig{}, errors.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()
	if s.Backend() != "memory" {
		t.Errorf("Expected memory backend, got %s", s.Backend())
	}
}

func TestPostgresQueries(t *testing.T) {
	p := newPostgresStore(nil, 0)

	t.Run("find recent", func(t *testing.T) {
		query, args, err := p.findRecentQuery("acmecorp", base)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := "SELECT title, description, submitted_at FROM job_postings WHERE company_normalized = $1 AND submitted_at >= $2 ORDER BY submitted_at ASC LIMIT 500"
		if query != want {
			t.Errorf("Expected %q, got %q", want, query)
		}
		if len(args) != 2 || args[0] != "acmecorp" || args[1] != base {
			t.Errorf("Unexpected args %v", args)
		}
	})

	t.Run("insert", func(t *testing.T) {
		a := stored("Acme Corp", "Engineer", base)
		query, args, err := p.insertQuery(a)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.HasPrefix(query, "INSERT INTO job_postings (id,company_normalized,title,description,submitted_at,risk_score,safety_score,risk_level,listing,result) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)") {
			t.Errorf("Unexpected insert %q", query)
		}
		if !strings.HasSuffix(query, "ON CONFLICT (id) DO NOTHING") {
			t.Errorf("Expected idempotent insert, got %q", query)
		}
		if len(args) != 10 {
			t.Fatalf("Expected 10 args, got %d", len(args))
		}
		if args[0] != a.ID.String() || args[1] != "acmecorp" || args[7] != string(types.RiskLevelVeryLow) {
			t.Errorf("Unexpected args %v", args[:8])
		}
		if !strings.Contains(string(args[9].([]byte)), `"riskScore":20`) {
			t.Errorf("Expected result JSON, got %s", args[9])
		}
	})

	t.Run("insert without result", func(t *testing.T) {
		if _, _, err := p.insertQuery(types.StoredAnalysis{ID: uuid.New()}); err == nil {
			t.Error("Expected error for missing result")
		}
	})

	t.Run("get", func(t *testing.T) {
		id := uuid.New()
		query, args, err := p.getQuery(id)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := "SELECT id::text, submitted_at, listing, result FROM job_postings WHERE id = $1"
		if query != want || args[0] != id.String() {
			t.Errorf("Expected %q with %s, got %q %v", want, id, query, args)
		}
	})

	t.Run("purge", func(t *testing.T) {
		query, args, err := p.purgeQuery(base)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := "DELETE FROM job_postings WHERE submitted_at < $1"
		if query != want || args[0] != base {
			t.Errorf("Expected %q, got %q %v", want, query, args)
		}
	})
}

func TestResultCacheKey(t *testing.T) {
	c := newResultCache(nil, time.Hour, "spotghost:link:")

	k1 := c.Key(1, "https://bit.ly/abc")
	if !strings.HasPrefix(k1, "spotghost:link:v1:g1:") {
		t.Errorf("Unexpected key layout %q", k1)
	}
	if len(k1) != len("spotghost:link:v1:g1:")+64 {
		t.Errorf("Expected a sha256 hex suffix, got %q", k1)
	}
	if k1 != c.Key(1, "  https://bit.ly/abc\n") {
		t.Error("Expected surrounding whitespace to be ignored")
	}
	if k1 == c.Key(2, "https://bit.ly/abc") {
		t.Error("Expected a new rule generation to change the key")
	}
	if k1 == c.Key(1, "https://bit.ly/abd") {
		t.Error("Expected different URLs to have different keys")
	}
}

func TestCacheEntryEnvelope(t *testing.T) {
	result := &types.AnalysisResult{Mode: types.ModeLinkOnly, RiskScore: 24, SafetyScore: 76}

	raw, err := encodeEntry(result, base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got, err := decodeEntry(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.RiskScore != 24 || got.Mode != types.ModeLinkOnly {
		t.Errorf("Unexpected decoded result %+v", got)
	}

	if _, err := encodeEntry(nil, base); err == nil {
		t.Error("Expected error for nil result")
	}
	if _, err := decodeEntry([]byte(`{"format":99,"result":{}}`)); err == nil {
		t.Error("Expected unknown format to be rejected")
	}
	if _, err := decodeEntry([]byte(`not json`)); err == nil {
		t.Error("Expected malformed entry to be rejected")
	}
}
