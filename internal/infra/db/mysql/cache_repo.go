package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/seif8911/cyberqr/internal/application"
	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

// CacheRepository persists aggregate results keyed by normalized URL.
// Entries are never updated in place: every Put inserts a new row and
// Get reads the newest one for the key, filtering stale rows out.
type CacheRepository struct {
	db    *sql.DB
	ttl   time.Duration
	clock application.Clock
}

func NewCacheRepository(db *sql.DB, ttl time.Duration, clock application.Clock) *CacheRepository {
	return &CacheRepository{db: db, ttl: ttl, clock: clock}
}

// Get returns the freshest cached result for the key, or ErrCacheMiss
// when none exists or the newest entry is older than the TTL.
func (r *CacheRepository) Get(ctx context.Context, key string) (*domain.Result, time.Time, error) {
	const q = `
SELECT result_json, created_at
FROM url_analyses
WHERE url_key=? ORDER BY created_at DESC LIMIT 1;
`
	var raw []byte
	var createdAt time.Time
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&raw, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, domain.ErrCacheMiss
		}
		return nil, time.Time{}, err
	}
	if r.clock.Now().Sub(createdAt) > r.ttl {
		return nil, time.Time{}, domain.ErrCacheMiss
	}

	var res domain.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, time.Time{}, err
	}
	return &res, createdAt, nil
}

// Put inserts a new cache row. A stale predecessor is simply superseded.
func (r *CacheRepository) Put(ctx context.Context, key string, res *domain.Result) error {
	const q = `
INSERT INTO url_analyses (id, url_key, url, risk_level, risk_score, result_json, created_at)
VALUES (?,?,?,?,?,?,?);
`
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		uuid.New().String(), key, res.URL, string(res.RiskLevel), res.RiskScore, raw, r.clock.Now(),
	)
	return err
}

// Latest returns the most recent analyses across all keys.
func (r *CacheRepository) Latest(ctx context.Context, limit int) ([]*domain.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT result_json
FROM url_analyses
ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Result
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var res domain.Result
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}
