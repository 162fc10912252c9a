// Package store persists crawl results and captured AI outputs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-trust/internal/model"
)

// Store defines the persistence interface for the trust pipeline.
type Store interface {
	// Crawl cache
	GetCachedCrawl(ctx context.Context, siteURL string) (*model.CrawlCache, error)
	SetCachedCrawl(ctx context.Context, siteURL string, result model.CrawlResult, ttl time.Duration) error
	DeleteExpiredCrawls(ctx context.Context) (int, error)

	// Captures
	AddCapture(ctx context.Context, c model.Capture) (*model.Capture, error)
	ImportCaptures(ctx context.Context, captures []model.Capture) (int, error)
	ListCaptures(ctx context.Context, afbID string) ([]model.Capture, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// CaptureID formats the n-th capture id for an AFB.
func CaptureID(n int) string {
	return fmt.Sprintf("cap:%03d", n)
}

// Open returns the store for driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite":
		s, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgres(ctx, dsn, nil)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// stamp fills the fields AddCapture owns when the caller left them empty.
func stamp(c model.Capture) model.Capture {
	if c.CapturedAt.IsZero() {
		c.CapturedAt = model.Now().UTC()
	}
	if c.Source == "" {
		c.Source = "unknown"
	}
	if c.Meta.GeneratedAt == "" {
		c.Meta = model.NewMeta("cli:manual")
	}
	return c
}
