// Package crawl fetches a site's pages, rendering through a headless browser
// when one is configured and falling back to plain HTTP, and extracts the
// structural facts of each page.
package crawl

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/answer-trust/internal/metrics"
	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/resilience"
	"github.com/sells-group/answer-trust/internal/site"
)

// Options configures a Crawler.
type Options struct {
	MaxPages    int
	Concurrency int
	// Timeout bounds the whole crawl. Pages still in flight when it fires are dropped.
	Timeout     time.Duration
	PageTimeout time.Duration
	// RenderTimeout bounds one headless navigation. Zero means PageTimeout.
	RenderTimeout time.Duration
	// UseBrowser requires a Renderer. Crawl fails with ErrBrowserUnavailable without one.
	UseBrowser bool
	UserAgent  string
	RatePerSec float64
	Retry      resilience.RetryConfig
	Breaker    resilience.CircuitBreakerConfig
	Progress   ProgressFunc
}

// DefaultOptions returns the crawl defaults.
func DefaultOptions() Options {
	return Options{
		MaxPages:    10,
		Concurrency: 4,
		Timeout:     5 * time.Minute,
		PageTimeout: 30 * time.Second,
		RatePerSec:  5,
		Retry:       resilience.FetchRetryConfig(),
		Breaker:     resilience.FromCircuitConfig(3, 60),
	}
}

// Crawler scans a site. Its shared state (HTTP client, rate limiter,
// renderer and render breaker) is safe for concurrent use, so one Crawler may
// serve concurrent crawls. Keep any state added here goroutine-safe.
type Crawler struct {
	opts     Options
	renderer Renderer
	breaker  *resilience.CircuitBreaker
	fetch    *fetcher
}

// New builds a Crawler. renderer may be nil for static-only crawling.
func New(opts Options, renderer Renderer) *Crawler {
	def := DefaultOptions()
	if opts.MaxPages <= 0 {
		opts.MaxPages = def.MaxPages
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = def.PageTimeout
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = opts.PageTimeout
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = def.Retry
	}

	c := &Crawler{
		opts:     opts,
		renderer: renderer,
		fetch:    newFetcher(opts.PageTimeout, opts.RatePerSec, opts.Retry, opts.UserAgent),
	}
	if renderer != nil {
		bc := opts.Breaker
		engine := renderer.Name()
		bc.OnStateChange = func(from, to resilience.CircuitState) {
			metrics.RendererCircuitState.WithLabelValues(engine).Set(float64(to))
			zap.L().Warn("crawl: renderer circuit changed",
				zap.String("engine", engine),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
		c.breaker = resilience.NewCircuitBreaker(bc)
	}
	return c
}

// Crawl scans baseURL and returns its site record. Individual page failures
// are recorded on the page; only a missing required renderer is an error.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*model.CrawlResult, error) {
	if c.opts.UseBrowser && c.renderer == nil {
		return nil, eris.Wrap(ErrBrowserUnavailable, "crawl: browser rendering required but no renderer configured")
	}

	start := time.Now()
	defer metrics.ObserveCrawl(start)

	base := site.Normalize(baseURL)
	if base == "" {
		return nil, eris.New("crawl: empty base url")
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	prog := newProgress(c.opts.Progress)
	prog.report(5, "Initializing crawler")

	result := &model.CrawlResult{
		Site:       base,
		Pages:      []model.PageRecord{},
		ParserUsed: model.ParserStatic,
		Meta:       model.NewMeta(base),
	}
	if c.renderer != nil {
		result.ParserUsed = model.ParserBrowser
	}

	urls := []string{base}
	if site.IsFile(base) {
		result.Checks.RobotsOK = true
	} else {
		result.Checks.RobotsOK = c.fetch.exists(ctx, base+"/robots.txt")
		if locs := c.sitemapURLs(ctx, base); len(locs) > 0 {
			result.Checks.SitemapOK = true
			urls = locs
		}
	}
	if len(urls) > c.opts.MaxPages {
		urls = urls[:c.opts.MaxPages]
	}

	zap.L().Info("crawl: scanning",
		zap.String("site", base),
		zap.Int("urls", len(urls)),
		zap.String("parser", string(result.ParserUsed)),
	)

	prog.setTotal(len(urls))
	prog.report(10, "Scanning pages")

	pages := make([]*model.PageRecord, len(urls))
	htmls := make([]string, len(urls))

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec, html := c.scanPage(ctx, base, u)
			if !rec.Fetched && ctx.Err() != nil {
				return nil
			}
			pages[i] = &rec
			htmls[i] = html
			prog.pageDone()
			return nil
		})
	}
	_ = g.Wait()

	for i, p := range pages {
		if p == nil {
			continue
		}
		result.Pages = append(result.Pages, *p)
		if result.HomeHTML == "" && p.Fetched {
			result.HomeHTML = htmls[i]
		}
	}

	if ctx.Err() != nil {
		zap.L().Warn("crawl: deadline reached, returning completed pages",
			zap.String("site", base),
			zap.Int("completed", len(result.Pages)),
			zap.Int("planned", len(urls)),
		)
	}
	prog.report(90, "Crawl complete")

	zap.L().Info("crawl: done",
		zap.String("site", base),
		zap.Int("pages", len(result.Pages)),
		zap.Int("fetched", len(result.FetchedPages())),
		zap.Bool("robots_ok", result.Checks.RobotsOK),
		zap.Bool("sitemap_ok", result.Checks.SitemapOK),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (c *Crawler) sitemapURLs(ctx context.Context, base string) []string {
	r, err := c.fetch.get(ctx, base+"/sitemap.xml")
	if err != nil || r.StatusCode != http.StatusOK {
		return nil
	}
	locs, err := ParseSitemap(bytes.NewReader(r.Body))
	if err != nil {
		zap.L().Debug("crawl: sitemap parse stopped early", zap.String("site", base), zap.Error(err))
	}
	return locs
}

// scanPage fetches and parses one URL. It never fails: an unfetchable page
// comes back as a missing-state record.
func (c *Crawler) scanPage(ctx context.Context, base, target string) (model.PageRecord, string) {
	start := time.Now()

	if site.IsFile(target) {
		return c.scanFile(base, target, start)
	}

	if c.renderer != nil {
		if html, ok := c.render(ctx, target); ok {
			rec := ParsePage(target, base, html)
			rec.Parser = model.FetchRender
			rec.StatusCode = http.StatusOK
			rec.Blocked, rec.BlockType = blockFields(DetectBlock(nil, []byte(html)))
			rec.LoadTime = seconds(time.Since(start))
			countPage(rec)
			return rec, html
		}
	}

	resp, err := c.fetch.fetch(ctx, target)
	if err != nil {
		zap.L().Warn("crawl: page fetch failed", zap.String("url", target), zap.Error(err))
		rec := model.MissingPage(target)
		rec.Parser = model.FetchStatic
		var te *resilience.TransientError
		if errors.As(err, &te) {
			rec.StatusCode = te.StatusCode
		}
		countPage(rec)
		return rec, ""
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rec := model.MissingPage(target)
		rec.Parser = model.FetchStatic
		rec.StatusCode = resp.StatusCode
		rec.Blocked, rec.BlockType = blockFields(resp.Blocked, resp.BlockType)
		zap.L().Debug("crawl: page not fetched", zap.String("url", target), zap.Int("status", resp.StatusCode))
		countPage(rec)
		return rec, ""
	}

	html := string(resp.Body)
	rec := ParsePage(target, base, html)
	rec.Parser = model.FetchStatic
	rec.StatusCode = resp.StatusCode
	rec.Blocked, rec.BlockType = blockFields(resp.Blocked, resp.BlockType)
	rec.LoadTime = seconds(time.Since(start))
	if rec.TitleMissing {
		zap.L().Debug("crawl: no title found", zap.String("url", target))
	}
	countPage(rec)
	return rec, html
}

// render tries the headless renderer through the circuit breaker. ok is
// false when the caller should fall back to a static fetch.
func (c *Crawler) render(ctx context.Context, target string) (string, bool) {
	engine := c.renderer.Name()
	html, err := resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (string, error) {
		return c.renderer.Render(ctx, target, c.opts.RenderTimeout)
	})
	switch {
	case eris.Is(err, resilience.ErrCircuitOpen):
		metrics.RenderFallbacks.WithLabelValues(engine, "circuit_open").Inc()
		return "", false
	case err != nil:
		metrics.RenderFallbacks.WithLabelValues(engine, "error").Inc()
		zap.L().Warn("crawl: render failed, falling back to static fetch",
			zap.String("engine", engine),
			zap.String("url", target),
			zap.Error(err),
		)
		return "", false
	case strings.TrimSpace(html) == "":
		metrics.RenderFallbacks.WithLabelValues(engine, "empty").Inc()
		zap.L().Warn("crawl: render returned no content, falling back to static fetch",
			zap.String("engine", engine),
			zap.String("url", target),
		)
		return "", false
	}
	return html, true
}

func (c *Crawler) scanFile(base, target string, start time.Time) (model.PageRecord, string) {
	path := target
	if u, err := url.Parse(target); err == nil && u.Path != "" {
		path = u.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("crawl: read file failed", zap.String("path", path), zap.Error(err))
		rec := model.MissingPage(target)
		rec.Parser = model.FetchFile
		countPage(rec)
		return rec, ""
	}
	html := string(data)
	rec := ParsePage(target, base, html)
	rec.Parser = model.FetchFile
	rec.LoadTime = seconds(time.Since(start))
	countPage(rec)
	return rec, html
}

func blockFields(blocked bool, bt BlockType) (bool, string) {
	return blocked, string(bt)
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

func countPage(rec model.PageRecord) {
	outcome := "failed"
	switch {
	case rec.Blocked:
		outcome = "blocked"
	case rec.Fetched:
		outcome = "fetched"
	}
	metrics.PagesFetched.WithLabelValues(rec.Parser, outcome).Inc()
	zap.L().Debug("crawl: page",
		zap.String("url", rec.URL),
		zap.String("parser", rec.Parser),
		zap.String("outcome", outcome),
		zap.Bool("title", !rec.TitleMissing),
		zap.Bool("description", !rec.MetaMissing),
		zap.Int("schema_types", len(rec.SchemaTypes)),
		zap.Float64("load_time", rec.LoadTime),
	)
}
