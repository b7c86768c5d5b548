// Package storage persists analyses and serves the posting history the
// duplicate check reads. Postgres backs production; the in-memory store is
// used when no database is configured.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
	"github.com/google/uuid"
)

// Store is the persistence collaborator. It satisfies analyzer.PostingStore.
type Store interface {
	FindRecentPostingsByCompany(ctx context.Context, normalizedName string, since time.Time) ([]types.HistoricalPosting, error)
	SaveAnalysis(ctx context.Context, a types.StoredAnalysis) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*types.StoredAnalysis, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Backend() string
	Close()
}

// Open returns a Postgres store when a database URL is configured and an
// in-memory store otherwise.
func Open(ctx context.Context, cfg config.StorageConfig, logger *errors.Logger) (Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("No database configured, keeping posting history in memory")
		return NewMemoryStore(), nil
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	store, err := NewPostgresStore(connectCtx, cfg)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "Failed to connect to Postgres", err)
	}

	if cfg.MigrateOnStart {
		if err := store.Migrate(connectCtx); err != nil {
			store.Close()
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "Failed to migrate posting schema", err)
		}
		logger.Info("Posting schema is up to date")
	}

	logger.Info("Connected to Postgres posting store", "max_conns", cfg.MaxConns)
	return store, nil
}

func notFound(id uuid.UUID) error {
	return errors.NewStorageError(errors.ErrCodeNotFound,
		fmt.Sprintf("analysis %s not found", id), nil).WithContext("id", id.String())
}
