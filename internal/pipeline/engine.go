package pipeline

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-trust/internal/config"
	"github.com/sells-group/answer-trust/internal/crawl"
	"github.com/sells-group/answer-trust/internal/resilience"
	"github.com/sells-group/answer-trust/internal/store"
	"github.com/sells-group/answer-trust/pkg/jina"
)

// CrawlOptions maps configuration onto crawler options.
func CrawlOptions(cfg *config.Config) crawl.Options {
	return crawl.Options{
		MaxPages:      cfg.Crawl.MaxPages,
		Concurrency:   cfg.Crawl.Concurrency,
		Timeout:       time.Duration(cfg.Crawl.TimeoutSecs) * time.Second,
		PageTimeout:   time.Duration(cfg.Crawl.PageTimeoutSecs) * time.Second,
		RenderTimeout: time.Duration(cfg.Render.NavTimeoutSecs) * time.Second,
		UseBrowser:    cfg.Crawl.UseBrowser,
		UserAgent:     cfg.Crawl.UserAgent,
		RatePerSec:    cfg.Crawl.RatePerSec,
		Retry:         resilience.FromRetryConfig(cfg.Crawl.FetchAttempts, cfg.Crawl.FetchBackoffMs),
		Breaker:       resilience.FromCircuitConfig(cfg.Render.FailureThreshold, cfg.Render.ResetTimeoutSecs),
	}
}

// NewRenderer builds the configured renderer, or returns nil when the
// browser is not enabled. The caller closes it.
func NewRenderer(cfg *config.Config) (crawl.Renderer, error) {
	if !cfg.Crawl.UseBrowser {
		return nil, nil
	}
	switch cfg.Render.Engine {
	case config.EngineJina:
		client := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))
		r, err := crawl.NewJinaRenderer(client)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: jina renderer")
		}
		return r, nil
	case config.EngineChrome, "":
		r, err := crawl.NewChromeRenderer(crawl.ChromeConfig{
			ExecPath:  cfg.Render.ChromePath,
			UserAgent: cfg.Crawl.UserAgent,
			Hydrate:   time.Duration(cfg.Render.HydrateMs) * time.Millisecond,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: chrome renderer")
		}
		return r, nil
	}
	return nil, eris.Errorf("pipeline: unknown render engine %q", cfg.Render.Engine)
}

// Build wires a Pipeline and its Crawler from configuration. progress may be
// nil. The returned close func releases the renderer.
func Build(cfg *config.Config, st store.Store, progress crawl.ProgressFunc) (*Pipeline, func(), error) {
	renderer, err := NewRenderer(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if renderer != nil {
		closeFn = func() { _ = renderer.Close() }
	}

	opts := CrawlOptions(cfg)
	opts.Progress = progress
	c := crawl.New(opts, renderer)
	p := New(c, st, Options{
		CacheTTL:        time.Duration(cfg.Crawl.CacheTTLHours) * time.Hour,
		AnswerMaxLength: cfg.Answer.MaxLength,
	})
	return p, closeFn, nil
}
