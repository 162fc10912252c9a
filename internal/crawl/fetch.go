package crawl

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/answer-trust/internal/resilience"
)

const maxBodyBytes = 4 << 20

// DefaultUserAgent mimics a desktop Chrome so sites serve their real markup.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// staticResponse is one completed HTTP fetch.
type staticResponse struct {
	StatusCode int
	Body       []byte
	Blocked    bool
	BlockType  BlockType
}

// fetcher performs plain HTTP GETs with browser-like headers, a shared
// politeness limiter and bounded retries on transient failures.
type fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
	userAgent string
}

func newFetcher(timeout time.Duration, ratePerSec float64, retry resilience.RetryConfig, userAgent string) *fetcher {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 8,
			},
		},
		limiter:   rate.NewLimiter(limit, 1),
		retry:     retry,
		userAgent: userAgent,
	}
}

func (f *fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,zh-TW;q=0.8,zh;q=0.7")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
}

// get issues a single GET without retries.
func (f *fetcher) get(ctx context.Context, target string) (*staticResponse, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate limit wait")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read body")
	}
	blocked, bt := DetectBlock(resp, body)
	return &staticResponse{StatusCode: resp.StatusCode, Body: body, Blocked: blocked, BlockType: bt}, nil
}

// fetch GETs target, retrying network errors and 429/5xx responses. A
// blocked response is returned as-is since retrying an interstitial only
// burns the budget. Other non-2xx responses are returned without error.
func (f *fetcher) fetch(ctx context.Context, target string) (*staticResponse, error) {
	cfg := f.retry
	cfg.OnRetry = resilience.RetryLogger("static_fetch", target)
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*staticResponse, error) {
		r, err := f.get(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			return nil, resilience.NewTransientError(err, 0)
		}
		if !r.Blocked && resilience.IsTransientHTTPStatus(r.StatusCode) {
			return nil, resilience.CheckStatus(target, r.StatusCode)
		}
		return r, nil
	})
}

// exists reports whether target answers 200.
func (f *fetcher) exists(ctx context.Context, target string) bool {
	r, err := f.get(ctx, target)
	return err == nil && r.StatusCode == http.StatusOK
}
