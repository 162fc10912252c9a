package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/answer-trust/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS crawl_cache (
	id         TEXT PRIMARY KEY,
	site_url   TEXT NOT NULL UNIQUE,
	result     TEXT NOT NULL,
	home_html  TEXT NOT NULL DEFAULT '',
	crawled_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_crawl_cache_expires_at ON crawl_cache(expires_at);

CREATE TABLE IF NOT EXISTS captures (
	id          TEXT PRIMARY KEY,
	afb_id      TEXT NOT NULL,
	capture_id  TEXT NOT NULL,
	ai_output   TEXT NOT NULL,
	source      TEXT NOT NULL,
	captured_at DATETIME NOT NULL,
	meta        TEXT NOT NULL,
	UNIQUE (afb_id, capture_id)
);

CREATE INDEX IF NOT EXISTS idx_captures_afb_id ON captures(afb_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCachedCrawl(ctx context.Context, siteURL string) (*model.CrawlCache, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, site_url, result, home_html, crawled_at, expires_at FROM crawl_cache
		 WHERE site_url = ? AND expires_at > ?`,
		siteURL, time.Now().UTC(),
	)

	var cc model.CrawlCache
	var resultJSON string
	err := row.Scan(&cc.ID, &cc.SiteURL, &resultJSON, &cc.HomeHTML, &cc.CrawledAt, &cc.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached crawl")
	}
	if err := json.Unmarshal([]byte(resultJSON), &cc.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal cached crawl")
	}
	cc.Result.HomeHTML = cc.HomeHTML
	return &cc, nil
}

func (s *SQLiteStore) SetCachedCrawl(ctx context.Context, siteURL string, result model.CrawlResult, ttl time.Duration) error {
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal crawl result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO crawl_cache (id, site_url, result, home_html, crawled_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (site_url) DO UPDATE SET
			result = excluded.result,
			home_html = excluded.home_html,
			crawled_at = excluded.crawled_at,
			expires_at = excluded.expires_at`,
		uuid.New().String(), siteURL, string(resultJSON), result.HomeHTML, now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set cached crawl")
}

func (s *SQLiteStore) DeleteExpiredCrawls(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM crawl_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired crawls")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// AddCapture stores c under the next sequential capture id for its AFB.
// A caller-supplied CaptureID is ignored.
func (s *SQLiteStore) AddCapture(ctx context.Context, c model.Capture) (*model.Capture, error) {
	if c.AFBID == "" {
		return nil, eris.New("sqlite: add capture: afb_id is required")
	}
	c = stamp(c)

	metaJSON, err := json.Marshal(c.Meta)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal capture meta")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(substr(capture_id, 5) AS INTEGER)), 0)
		 FROM captures WHERE afb_id = ? AND capture_id LIKE 'cap:%'`,
		c.AFBID,
	).Scan(&last)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: next capture id")
	}
	c.CaptureID = CaptureID(last + 1)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO captures (id, afb_id, capture_id, ai_output, source, captured_at, meta)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), c.AFBID, c.CaptureID, c.AIOutput, c.Source, c.CapturedAt, string(metaJSON),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert capture")
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit capture")
	}
	return &c, nil
}

// ImportCaptures upserts captures keyed on (afb_id, capture_id).
func (s *SQLiteStore) ImportCaptures(ctx context.Context, captures []model.Capture) (int, error) {
	if len(captures) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO captures (id, afb_id, capture_id, ai_output, source, captured_at, meta)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (afb_id, capture_id) DO UPDATE SET
			ai_output = excluded.ai_output,
			source = excluded.source,
			captured_at = excluded.captured_at,
			meta = excluded.meta`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare import")
	}
	defer stmt.Close() //nolint:errcheck

	for _, c := range captures {
		if c.AFBID == "" || c.CaptureID == "" {
			return 0, eris.Errorf("sqlite: import capture: afb_id and capture_id are required (%q, %q)", c.AFBID, c.CaptureID)
		}
		c = stamp(c)
		metaJSON, err := json.Marshal(c.Meta)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal capture meta")
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), c.AFBID, c.CaptureID, c.AIOutput, c.Source, c.CapturedAt, string(metaJSON),
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import capture %s", c.CaptureID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import")
	}
	return len(captures), nil
}

func (s *SQLiteStore) ListCaptures(ctx context.Context, afbID string) ([]model.Capture, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT afb_id, capture_id, ai_output, source, captured_at, meta
		 FROM captures WHERE afb_id = ? ORDER BY capture_id`,
		afbID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list captures")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.Capture{}
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate captures")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanCapture(row scannable) (*model.Capture, error) {
	var c model.Capture
	var metaJSON string
	if err := row.Scan(&c.AFBID, &c.CaptureID, &c.AIOutput, &c.Source, &c.CapturedAt, &metaJSON); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan capture")
	}
	if err := json.Unmarshal([]byte(metaJSON), &c.Meta); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal capture meta")
	}
	return &c, nil
}
