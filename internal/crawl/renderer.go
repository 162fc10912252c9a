package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-trust/pkg/jina"
)

// ErrBrowserUnavailable is returned when headless rendering is required but
// the engine cannot be started.
var ErrBrowserUnavailable = eris.New("crawl: headless browser unavailable")

// Renderer loads a URL in a headless browser and returns the hydrated HTML.
type Renderer interface {
	Render(ctx context.Context, url string, timeout time.Duration) (string, error)
	Name() string
	Close() error
}

// ChromeConfig configures a local Chrome renderer.
type ChromeConfig struct {
	ExecPath  string
	UserAgent string
	// Hydrate is extra settle time after the body is ready, for client-side rendering.
	Hydrate time.Duration
}

// ChromeRenderer drives a local headless Chrome via the DevTools protocol.
// One browser process is shared; every Render gets its own incognito
// browser context and tab, torn down when Render returns.
type ChromeRenderer struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	hydrate       time.Duration
}

// NewChromeRenderer launches headless Chrome. Failure to start is reported
// as ErrBrowserUnavailable.
func NewChromeRenderer(cfg ChromeConfig) (*ChromeRenderer, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(ua),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1366, 900),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, eris.Wrapf(ErrBrowserUnavailable, "chrome: launch: %v", err)
	}

	return &ChromeRenderer{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		hydrate:       cfg.Hydrate,
	}, nil
}

func (r *ChromeRenderer) Name() string { return "chrome" }

// Render navigates an isolated tab to url and returns the document's outer HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string, timeout time.Duration) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx, chromedp.WithNewBrowserContext())
	defer cancelTab()
	if timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if r.hydrate > 0 {
		actions = append(actions, chromedp.Sleep(r.hydrate))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", eris.Wrapf(err, "chrome: render %s", url)
	}
	return html, nil
}

// Close shuts the browser down.
func (r *ChromeRenderer) Close() error {
	r.cancelBrowser()
	r.cancelAlloc()
	return nil
}

// JinaRenderer renders pages remotely through the Jina Reader.
type JinaRenderer struct {
	client jina.Client
}

// NewJinaRenderer wraps a Jina client. A nil client is reported as
// ErrBrowserUnavailable.
func NewJinaRenderer(client jina.Client) (*JinaRenderer, error) {
	if client == nil {
		return nil, eris.Wrap(ErrBrowserUnavailable, "jina: no client configured")
	}
	return &JinaRenderer{client: client}, nil
}

func (r *JinaRenderer) Name() string { return "jina" }

func (r *JinaRenderer) Render(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	resp, err := r.client.Read(ctx, url, jina.WithFormat(jina.FormatHTML), jina.WithTimeout(timeout))
	if err != nil {
		return "", eris.Wrapf(err, "jina: render %s", url)
	}
	html := resp.Data.Body()
	if strings.TrimSpace(html) == "" {
		return "", eris.Errorf("jina: empty render for %s", url)
	}
	return html, nil
}

func (r *JinaRenderer) Close() error { return nil }
