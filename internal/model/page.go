package model

import "time"

// Parser identifies how a crawl fetched its pages.
type Parser string

const (
	// ParserBrowser is reported when a headless renderer was active for the crawl.
	// The wire value is kept for compatibility with existing consumers.
	ParserBrowser Parser = "playwright"
	ParserStatic  Parser = "static"
)

// Per-page fetch paths.
const (
	FetchRender = "render"
	FetchStatic = "static"
	FetchFile   = "file"
)

// PageRecord holds the structural facts extracted from one crawled URL.
// A failed fetch still yields a well-formed record (see MissingPage).
type PageRecord struct {
	URL                string           `json:"url"`
	Fetched            bool             `json:"fetched"`
	StatusCode         int              `json:"status_code,omitempty"`
	Parser             string           `json:"parser,omitempty"`
	Title              string           `json:"title,omitempty"`
	HasJSONLD          bool             `json:"has_jsonld"`
	SchemaTypes        []string         `json:"schema_types"`
	Schemas            []map[string]any `json:"schemas"`
	HasMeta            bool             `json:"has_meta"`
	HasFavicon         bool             `json:"has_favicon"`
	HasViewport        bool             `json:"has_viewport"`
	LoadTime           float64          `json:"load_time"`
	TitleMissing       bool             `json:"title_missing"`
	MetaMissing        bool             `json:"meta_missing"`
	IsAboutAuthor      bool             `json:"is_about_author"`
	IsContact          bool             `json:"is_contact"`
	AuthorNames        []string         `json:"author_names"`
	OutboundLinksCount int              `json:"outbound_links_count"`
	ExternalLinksCount int              `json:"external_links_count"`
	SocialLinksCount   int              `json:"social_links_count"`
	SocialPlatforms    []string         `json:"social_platforms"`
	AuthorityDomains   []string         `json:"authority_domains"`
	Blocked            bool             `json:"blocked,omitempty"`
	BlockType          string           `json:"block_type,omitempty"`
}

// MissingPage returns the record for a URL that could not be fetched, with
// every derived flag in its "missing" state.
func MissingPage(url string) PageRecord {
	return PageRecord{
		URL:              url,
		SchemaTypes:      []string{},
		Schemas:          []map[string]any{},
		TitleMissing:     true,
		MetaMissing:      true,
		AuthorNames:      []string{},
		SocialPlatforms:  []string{},
		AuthorityDomains: []string{},
	}
}

// CrawlChecks records site-level discovery probes.
type CrawlChecks struct {
	RobotsOK  bool `json:"robots_ok"`
	SitemapOK bool `json:"sitemap_ok"`
}

// CrawlResult is the Crawler's output for one site.
type CrawlResult struct {
	Site       string       `json:"site"`
	Pages      []PageRecord `json:"pages"`
	Checks     CrawlChecks  `json:"checks"`
	ParserUsed Parser       `json:"parser_used"`
	Meta       Meta         `json:"meta"`

	// HomeHTML is the raw markup of the first fetched page, kept for the
	// Answer Builder. It is not part of the wire format.
	HomeHTML string `json:"-"`
}

// FetchedPages returns the pages whose fetch succeeded, in crawl order.
func (r CrawlResult) FetchedPages() []PageRecord {
	out := make([]PageRecord, 0, len(r.Pages))
	for _, p := range r.Pages {
		if p.Fetched {
			out = append(out, p)
		}
	}
	return out
}

// CrawlCache stores a cached crawl result.
type CrawlCache struct {
	ID        string      `json:"id"`
	SiteURL   string      `json:"site_url"`
	Result    CrawlResult `json:"result"`
	HomeHTML  string      `json:"home_html,omitempty"`
	CrawledAt time.Time   `json:"crawled_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}
