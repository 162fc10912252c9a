package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-trust/internal/db"
	"github.com/sells-group/answer-trust/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"get_cached_crawl": `SELECT id, site_url, result, home_html, crawled_at, expires_at FROM crawl_cache WHERE site_url = $1 AND expires_at > now()`,
	"list_captures":    `SELECT afb_id, capture_id, ai_output, source, captured_at, meta FROM captures WHERE afb_id = $1 ORDER BY capture_id`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS crawl_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	site_url   TEXT NOT NULL UNIQUE,
	result     JSONB NOT NULL,
	home_html  TEXT NOT NULL DEFAULT '',
	crawled_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_crawl_cache_expires_at ON crawl_cache(expires_at);

CREATE TABLE IF NOT EXISTS captures (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	afb_id      TEXT NOT NULL,
	capture_id  TEXT NOT NULL,
	ai_output   TEXT NOT NULL,
	source      TEXT NOT NULL,
	captured_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	meta        JSONB NOT NULL,
	UNIQUE (afb_id, capture_id)
);

CREATE INDEX IF NOT EXISTS idx_captures_afb_id ON captures(afb_id);
`

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetCachedCrawl(ctx context.Context, siteURL string) (*model.CrawlCache, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, site_url, result, home_html, crawled_at, expires_at FROM crawl_cache
		 WHERE site_url = $1 AND expires_at > now()`,
		siteURL,
	)

	var cc model.CrawlCache
	var resultJSON []byte
	err := row.Scan(&cc.ID, &cc.SiteURL, &resultJSON, &cc.HomeHTML, &cc.CrawledAt, &cc.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cached crawl")
	}
	if err := json.Unmarshal(resultJSON, &cc.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached crawl")
	}
	cc.Result.HomeHTML = cc.HomeHTML
	return &cc, nil
}

func (s *PostgresStore) SetCachedCrawl(ctx context.Context, siteURL string, result model.CrawlResult, ttl time.Duration) error {
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal crawl result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO crawl_cache (id, site_url, result, home_html, crawled_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (site_url) DO UPDATE SET
			result = EXCLUDED.result,
			home_html = EXCLUDED.home_html,
			crawled_at = EXCLUDED.crawled_at,
			expires_at = EXCLUDED.expires_at`,
		uuid.New().String(), siteURL, resultJSON, result.HomeHTML, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached crawl")
}

func (s *PostgresStore) DeleteExpiredCrawls(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM crawl_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired crawls")
	}
	return int(tag.RowsAffected()), nil
}

// AddCapture stores c under the next sequential capture id for its AFB. The
// id is computed inside the INSERT.
func (s *PostgresStore) AddCapture(ctx context.Context, c model.Capture) (*model.Capture, error) {
	if c.AFBID == "" {
		return nil, eris.New("postgres: add capture: afb_id is required")
	}
	c = stamp(c)

	metaJSON, err := json.Marshal(c.Meta)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal capture meta")
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO captures (id, afb_id, capture_id, ai_output, source, captured_at, meta)
		 SELECT $1, $2, 'cap:' || lpad((COALESCE(MAX(substring(capture_id FROM '^cap:(\d+)$')::int), 0) + 1)::text, 3, '0'), $3, $4, $5, $6
		 FROM captures WHERE afb_id = $2
		 RETURNING capture_id`,
		uuid.New().String(), c.AFBID, c.AIOutput, c.Source, c.CapturedAt, metaJSON,
	).Scan(&c.CaptureID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert capture")
	}
	return &c, nil
}

var captureUpsert = db.UpsertConfig{
	Table:        "captures",
	Columns:      []string{"id", "afb_id", "capture_id", "ai_output", "source", "captured_at", "meta"},
	ConflictKeys: []string{"afb_id", "capture_id"},
	UpdateCols:   []string{"ai_output", "source", "captured_at", "meta"},
}

// ImportCaptures bulk-upserts captures keyed on (afb_id, capture_id).
func (s *PostgresStore) ImportCaptures(ctx context.Context, captures []model.Capture) (int, error) {
	rows := make([][]any, 0, len(captures))
	for _, c := range captures {
		if c.AFBID == "" || c.CaptureID == "" {
			return 0, eris.Errorf("postgres: import capture: afb_id and capture_id are required (%q, %q)", c.AFBID, c.CaptureID)
		}
		c = stamp(c)
		metaJSON, err := json.Marshal(c.Meta)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal capture meta")
		}
		rows = append(rows, []any{uuid.New().String(), c.AFBID, c.CaptureID, c.AIOutput, c.Source, c.CapturedAt, metaJSON})
	}

	n, err := db.BulkUpsert(ctx, s.pool, captureUpsert, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import captures")
	}
	return int(n), nil
}

func (s *PostgresStore) ListCaptures(ctx context.Context, afbID string) ([]model.Capture, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT afb_id, capture_id, ai_output, source, captured_at, meta
		 FROM captures WHERE afb_id = $1 ORDER BY capture_id`,
		afbID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list captures")
	}
	defer rows.Close()

	out := []model.Capture{}
	for rows.Next() {
		var c model.Capture
		var metaJSON []byte
		if err := rows.Scan(&c.AFBID, &c.CaptureID, &c.AIOutput, &c.Source, &c.CapturedAt, &metaJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan capture")
		}
		if err := json.Unmarshal(metaJSON, &c.Meta); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal capture meta")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate captures")
}
