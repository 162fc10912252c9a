package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-trust/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleCrawl() model.CrawlResult {
	page := model.MissingPage("https://acme.com/")
	page.Fetched = true
	page.StatusCode = 200
	page.Title = "Acme"
	page.TitleMissing = false
	return model.CrawlResult{
		Site:       "https://acme.com",
		Pages:      []model.PageRecord{page},
		Checks:     model.CrawlChecks{RobotsOK: true},
		ParserUsed: model.ParserStatic,
		Meta:       model.NewMeta("https://acme.com"),
		HomeHTML:   "<html><title>Acme</title></html>",
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CrawlCacheRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SetCachedCrawl(ctx, "https://acme.com", sampleCrawl(), time.Hour))

		cc, err := s.GetCachedCrawl(ctx, "https://acme.com")
		require.NoError(t, err)
		require.NotNil(t, cc)
		assert.NotEmpty(t, cc.ID)
		assert.Equal(t, "https://acme.com", cc.SiteURL)
		assert.Equal(t, "https://acme.com", cc.Result.Site)
		require.Len(t, cc.Result.Pages, 1)
		assert.Equal(t, "Acme", cc.Result.Pages[0].Title)
		assert.Equal(t, "<html><title>Acme</title></html>", cc.Result.HomeHTML)
		assert.True(t, cc.ExpiresAt.After(cc.CrawledAt))
	})

	t.Run("CrawlCacheMiss", func(t *testing.T) {
		s := newStore(t)
		cc, err := s.GetCachedCrawl(context.Background(), "https://unknown.com")
		require.NoError(t, err)
		assert.Nil(t, cc)
	})

	t.Run("CrawlCacheOverwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := sampleCrawl()
		require.NoError(t, s.SetCachedCrawl(ctx, first.Site, first, time.Hour))
		second := sampleCrawl()
		second.Pages[0].Title = "Acme v2"
		require.NoError(t, s.SetCachedCrawl(ctx, second.Site, second, time.Hour))

		cc, err := s.GetCachedCrawl(ctx, first.Site)
		require.NoError(t, err)
		require.NotNil(t, cc)
		assert.Equal(t, "Acme v2", cc.Result.Pages[0].Title)
	})

	t.Run("CrawlCacheExpired", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SetCachedCrawl(ctx, "https://old.com", sampleCrawl(), -time.Hour))
		require.NoError(t, s.SetCachedCrawl(ctx, "https://fresh.com", sampleCrawl(), time.Hour))

		cc, err := s.GetCachedCrawl(ctx, "https://old.com")
		require.NoError(t, err)
		assert.Nil(t, cc)

		n, err := s.DeleteExpiredCrawls(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		cc, err = s.GetCachedCrawl(ctx, "https://fresh.com")
		require.NoError(t, err)
		assert.NotNil(t, cc)
	})

	t.Run("AddCaptureSequentialIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i, out := range []string{"first", "second", "third"} {
			c, err := s.AddCapture(ctx, model.Capture{AFBID: "afb:page:acme-com", AIOutput: out, Source: "claude"})
			require.NoError(t, err)
			assert.Equal(t, CaptureID(i+1), c.CaptureID)
			assert.False(t, c.CapturedAt.IsZero())
			assert.Equal(t, "cli:manual", c.Meta.InputSource)
		}

		// Ids are per AFB.
		other, err := s.AddCapture(ctx, model.Capture{AFBID: "afb:page:other-com", AIOutput: "x"})
		require.NoError(t, err)
		assert.Equal(t, "cap:001", other.CaptureID)
		assert.Equal(t, "unknown", other.Source)

		got, err := s.ListCaptures(ctx, "afb:page:acme-com")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "cap:001", got[0].CaptureID)
		assert.Equal(t, "first", got[0].AIOutput)
		assert.Equal(t, "cap:003", got[2].CaptureID)
		assert.Equal(t, "claude", got[2].Source)
	})

	t.Run("AddCaptureRequiresAFB", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddCapture(context.Background(), model.Capture{AIOutput: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "afb_id is required")
	})

	t.Run("ImportCapturesUpserts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

		n, err := s.ImportCaptures(ctx, []model.Capture{
			{CaptureID: "cap:001", AFBID: "afb:page:acme-com", AIOutput: "one", Source: "gpt", CapturedAt: at},
			{CaptureID: "cap:007", AFBID: "afb:page:acme-com", AIOutput: "seven", Source: "gpt", CapturedAt: at},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = s.ImportCaptures(ctx, []model.Capture{
			{CaptureID: "cap:001", AFBID: "afb:page:acme-com", AIOutput: "one, revised", Source: "gpt", CapturedAt: at},
		})
		require.NoError(t, err)

		got, err := s.ListCaptures(ctx, "afb:page:acme-com")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "one, revised", got[0].AIOutput)
		assert.WithinDuration(t, at, got[0].CapturedAt, time.Second)

		// The next manual capture continues after the highest imported id.
		c, err := s.AddCapture(ctx, model.Capture{AFBID: "afb:page:acme-com", AIOutput: "eight"})
		require.NoError(t, err)
		assert.Equal(t, "cap:008", c.CaptureID)
	})

	t.Run("ImportCapturesRejectsMissingIDs", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ImportCaptures(context.Background(), []model.Capture{{AFBID: "afb:page:acme-com", AIOutput: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capture_id are required")
	})

	t.Run("ListCapturesEmpty", func(t *testing.T) {
		s := newStore(t)
		got, err := s.ListCaptures(context.Background(), "afb:page:nobody")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
}

func TestCaptureID(t *testing.T) {
	assert.Equal(t, "cap:001", CaptureID(1))
	assert.Equal(t, "cap:042", CaptureID(42))
	assert.Equal(t, "cap:1000", CaptureID(1000))
}
