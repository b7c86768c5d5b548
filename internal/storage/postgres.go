package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/analyzer"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const postingsTable = "job_postings"

// maxHistoryRows bounds a single company's history read.
const maxHistoryRows = 500

var schema = []string{
	`CREATE TABLE IF NOT EXISTS job_postings (
		id                 UUID PRIMARY KEY,
		company_normalized TEXT NOT NULL,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL,
		submitted_at       TIMESTAMPTZ NOT NULL,
		risk_score         INTEGER NOT NULL,
		safety_score       INTEGER NOT NULL,
		risk_level         TEXT NOT NULL,
		listing            JSONB NOT NULL,
		result             JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS job_postings_company_submitted_idx
		ON job_postings (company_normalized, submitted_at DESC)`,
	`CREATE INDEX IF NOT EXISTS job_postings_submitted_idx
		ON job_postings (submitted_at)`,
}

// PostgresStore stores analyses in the job_postings table.
type PostgresStore struct {
	pool         *pgxpool.Pool
	sb           sq.StatementBuilderType
	queryTimeout time.Duration
	tracer       trace.Tracer
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates and verifies a pgxpool connection pool.
func NewPostgresStore(ctx context.Context, cfg config.StorageConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return newPostgresStore(pool, cfg.QueryTimeout), nil
}

func newPostgresStore(pool *pgxpool.Pool, queryTimeout time.Duration) *PostgresStore {
	return &PostgresStore{
		pool:         pool,
		sb:           sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		queryTimeout: queryTimeout,
		tracer:       otel.Tracer("spotghost.storage.postgres"),
	}
}

// Migrate creates the posting table and its indexes if they are missing.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (p *PostgresStore) withTimeout(ctx context.Context, op string) (context.Context, func()) {
	ctx, span := p.tracer.Start(ctx, "postgres."+op,
		trace.WithAttributes(attribute.String("db.system", "postgresql"), attribute.String("db.sql.table", postingsTable)))
	if p.queryTimeout <= 0 {
		return ctx, func() { span.End() }
	}
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	return ctx, func() {
		cancel()
		span.End()
	}
}

func (p *PostgresStore) findRecentQuery(normalizedName string, since time.Time) (string, []any, error) {
	return p.sb.
		Select("title", "description", "submitted_at").
		From(postingsTable).
		Where(sq.Eq{"company_normalized": normalizedName}).
		Where(sq.GtOrEq{"submitted_at": since}).
		OrderBy("submitted_at ASC").
		Limit(maxHistoryRows).
		ToSql()
}

// FindRecentPostingsByCompany returns postings at or after since, oldest first.
func (p *PostgresStore) FindRecentPostingsByCompany(ctx context.Context, normalizedName string, since time.Time) ([]types.HistoricalPosting, error) {
	ctx, done := p.withTimeout(ctx, "find_recent")
	defer done()

	query, args, err := p.findRecentQuery(normalizedName, since)
	if err != nil {
		return nil, fmt.Errorf("findRecent build: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("findRecent query: %w", err)
	}
	defer rows.Close()

	postings := make([]types.HistoricalPosting, 0)
	for rows.Next() {
		var h types.HistoricalPosting
		if err := rows.Scan(&h.Title, &h.Description, &h.SubmittedAt); err != nil {
			return nil, fmt.Errorf("findRecent scan: %w", err)
		}
		postings = append(postings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("findRecent rows: %w", err)
	}
	return postings, nil
}

func (p *PostgresStore) insertQuery(a types.StoredAnalysis) (string, []any, error) {
	if a.Result == nil {
		return "", nil, fmt.Errorf("analysis %s has no result", a.ID)
	}
	listing, err := json.Marshal(a.Listing)
	if err != nil {
		return "", nil, fmt.Errorf("marshal listing: %w", err)
	}
	result, err := json.Marshal(a.Result)
	if err != nil {
		return "", nil, fmt.Errorf("marshal result: %w", err)
	}

	return p.sb.
		Insert(postingsTable).
		Columns("id", "company_normalized", "title", "description", "submitted_at",
			"risk_score", "safety_score", "risk_level", "listing", "result").
		Values(a.ID.String(), analyzer.NormalizeCompanyKey(a.Listing.Company), a.Listing.Title, a.Listing.Description,
			a.CreatedAt, a.Result.RiskScore, a.Result.SafetyScore, string(a.Result.RiskLevel), listing, result).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

// SaveAnalysis inserts a. Saving the same id twice is a no-op.
func (p *PostgresStore) SaveAnalysis(ctx context.Context, a types.StoredAnalysis) error {
	ctx, done := p.withTimeout(ctx, "save_analysis")
	defer done()

	query, args, err := p.insertQuery(a)
	if err != nil {
		return fmt.Errorf("saveAnalysis build: %w", err)
	}
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("saveAnalysis exec: %w", err)
	}
	return nil
}

func (p *PostgresStore) getQuery(id uuid.UUID) (string, []any, error) {
	return p.sb.
		Select("id::text", "submitted_at", "listing", "result").
		From(postingsTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
}

// GetAnalysis returns the analysis with id or a NOT_FOUND storage error.
func (p *PostgresStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.StoredAnalysis, error) {
	ctx, done := p.withTimeout(ctx, "get_analysis")
	defer done()

	query, args, err := p.getQuery(id)
	if err != nil {
		return nil, fmt.Errorf("getAnalysis build: %w", err)
	}

	var (
		rawID           string
		listing, result []byte
		a               types.StoredAnalysis
	)
	err = p.pool.QueryRow(ctx, query, args...).Scan(&rawID, &a.CreatedAt, &listing, &result)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getAnalysis scan: %w", err)
	}

	if a.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("getAnalysis id: %w", err)
	}
	if err := json.Unmarshal(listing, &a.Listing); err != nil {
		return nil, fmt.Errorf("getAnalysis listing: %w", err)
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("getAnalysis result: %w", err)
	}
	return &a, nil
}

func (p *PostgresStore) purgeQuery(cutoff time.Time) (string, []any, error) {
	return p.sb.
		Delete(postingsTable).
		Where(sq.Lt{"submitted_at": cutoff}).
		ToSql()
}

// PurgeBefore deletes postings submitted before cutoff.
func (p *PostgresStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, done := p.withTimeout(ctx, "purge")
	defer done()

	query, args, err := p.purgeQuery(cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge build: %w", err)
	}
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge exec: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of stored postings.
func (p *PostgresStore) Count(ctx context.Context) (int64, error) {
	ctx, done := p.withTimeout(ctx, "count")
	defer done()

	query, args, err := p.sb.Select("COUNT(*)").From(postingsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("count build: %w", err)
	}
	var n int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return n, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Backend() string { return "postgres" }

func (p *PostgresStore) Close() {
	p.pool.Close()
}
