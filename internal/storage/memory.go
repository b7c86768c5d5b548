package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/analyzer"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
	"github.com/google/uuid"
)

// MemoryStore keeps analyses in process. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	analysis   types.StoredAnalysis
	companyKey string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{analyses: make(map[uuid.UUID]memoryEntry)}
}

// FindRecentPostingsByCompany returns postings at or after since, oldest first.
func (m *MemoryStore) FindRecentPostingsByCompany(_ context.Context, normalizedName string, since time.Time) ([]types.HistoricalPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.HistoricalPosting
	for _, e := range m.analyses {
		if e.companyKey != normalizedName || e.analysis.CreatedAt.Before(since) {
			continue
		}
		out = append(out, types.HistoricalPosting{
			Title:       e.analysis.Listing.Title,
			Description: e.analysis.Listing.Description,
			SubmittedAt: e.analysis.CreatedAt,
		})
	}
	slices.SortFunc(out, func(a, b types.HistoricalPosting) int {
		return a.SubmittedAt.Compare(b.SubmittedAt)
	})
	return out, nil
}

// SaveAnalysis stores a, replacing any analysis with the same id.
func (m *MemoryStore) SaveAnalysis(_ context.Context, a types.StoredAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = memoryEntry{
		analysis:   a,
		companyKey: analyzer.NormalizeCompanyKey(a.Listing.Company),
	}
	return nil
}

// GetAnalysis returns the analysis with id or a NOT_FOUND storage error.
func (m *MemoryStore) GetAnalysis(_ context.Context, id uuid.UUID) (*types.StoredAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.analyses[id]
	if !ok {
		return nil, notFound(id)
	}
	a := e.analysis
	return &a, nil
}

// PurgeBefore deletes analyses created before cutoff.
func (m *MemoryStore) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.analyses {
		if e.analysis.CreatedAt.Before(cutoff) {
			delete(m.analyses, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.analyses)), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Backend() string { return "memory" }

func (m *MemoryStore) Close() {}
