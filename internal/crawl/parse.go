package crawl

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/site"
)

var (
	aboutAuthorKeywords = []string{"about", "author", "team", "contact", "關於", "作者"}
	contactKeywords     = []string{"contact", "聯絡", "联系"}
)

// ParsePage extracts a PageRecord from raw HTML. pageURL resolves relative
// links; siteURL decides which links are external.
func ParsePage(pageURL, siteURL, html string) model.PageRecord {
	rec := model.MissingPage(pageURL)
	rec.Fetched = true

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rec
	}

	rec.Schemas = ExtractSchemas(doc)
	rec.SchemaTypes = SchemaTypes(rec.Schemas)
	rec.HasJSONLD = len(rec.SchemaTypes) > 0 || jsonLDScripts(doc).Length() > 0

	rec.Title = strings.TrimSpace(doc.Find("title").First().Text())
	rec.TitleMissing = rec.Title == ""

	desc := metaContent(doc, "name", "description")
	if desc == "" {
		desc = metaContent(doc, "property", "og:description")
	}
	rec.HasMeta = desc != ""
	rec.MetaMissing = !rec.HasMeta

	rec.HasViewport = findMeta(doc, "name", "viewport").Length() > 0
	rec.HasFavicon = hasFavicon(doc)

	path := pathOf(pageURL)
	rec.IsAboutAuthor = containsAny(path, aboutAuthorKeywords)
	rec.IsContact = containsAny(path, contactKeywords)
	rec.AuthorNames = authorNames(doc, rec.Schemas)

	classifyLinks(doc, pageURL, siteURL, &rec)
	return rec
}

func jsonLDScripts(doc *goquery.Document) *goquery.Selection {
	return doc.Find("script").FilterFunction(func(_ int, s *goquery.Selection) bool {
		t, _ := s.Attr("type")
		return strings.EqualFold(strings.TrimSpace(t), "application/ld+json")
	})
}

// ExtractSchemas decodes every JSON-LD block, flattening arrays and @graph
// wrappers into a list of objects. Malformed blocks are skipped.
func ExtractSchemas(doc *goquery.Document) []map[string]any {
	out := []map[string]any{}
	jsonLDScripts(doc).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		switch v := data.(type) {
		case []any:
			out = append(out, objects(v)...)
		case map[string]any:
			if graph, ok := v["@graph"].([]any); ok {
				out = append(out, objects(graph)...)
			} else {
				out = append(out, v)
			}
		}
	})
	return out
}

func objects(items []any) []map[string]any {
	var out []map[string]any
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// SchemaTypes returns the distinct @type values across schemas in first-seen order.
func SchemaTypes(schemas []map[string]any) []string {
	types := []string{}
	add := func(t any) {
		if s, ok := t.(string); ok && s != "" && !slices.Contains(types, s) {
			types = append(types, s)
		}
	}
	for _, s := range schemas {
		switch t := s["@type"].(type) {
		case []any:
			for _, x := range t {
				add(x)
			}
		default:
			add(t)
		}
	}
	return types
}

func findMeta(doc *goquery.Document, attr, value string) *goquery.Selection {
	return doc.Find("meta").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(attr)
		return strings.EqualFold(strings.TrimSpace(v), value)
	})
}

func metaContent(doc *goquery.Document, attr, value string) string {
	var content string
	findMeta(doc, attr, value).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		c, _ := s.Attr("content")
		content = strings.TrimSpace(c)
		return content == ""
	})
	return content
}

func hasFavicon(doc *goquery.Document) bool {
	return doc.Find("link[rel]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		for _, tok := range strings.Fields(strings.ToLower(rel)) {
			if tok == "icon" || tok == "apple-touch-icon" {
				return true
			}
		}
		return false
	}).Length() > 0
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Path)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// authorNames collects author names from <meta name="author"> and the
// author property of schema objects.
func authorNames(doc *goquery.Document, schemas []map[string]any) []string {
	names := []string{}
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	findMeta(doc, "name", "author").Each(func(_ int, s *goquery.Selection) {
		c, _ := s.Attr("content")
		add(c)
	})
	for _, s := range schemas {
		collectAuthor(s["author"], add)
	}
	return names
}

func collectAuthor(v any, add func(string)) {
	switch a := v.(type) {
	case string:
		add(a)
	case map[string]any:
		if n, ok := a["name"].(string); ok {
			add(n)
		}
	case []any:
		for _, x := range a {
			collectAuthor(x, add)
		}
	}
}

// classifyLinks counts anchors and sorts absolute http(s) links into
// external, social and authority buckets by registrable domain.
func classifyLinks(doc *goquery.Document, pageURL, siteURL string, rec *model.PageRecord) {
	base, _ := url.Parse(pageURL)
	siteDomain := site.RegistrableDomain(siteURL)
	if site.IsFile(siteURL) {
		siteDomain = ""
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		rec.OutboundLinksCount++

		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		link := u.String()
		d := site.RegistrableDomain(link)
		if d == "" || d == siteDomain {
			return
		}

		rec.ExternalLinksCount++
		if p, ok := site.SocialPlatform(link); ok {
			rec.SocialLinksCount++
			if !slices.Contains(rec.SocialPlatforms, p) {
				rec.SocialPlatforms = append(rec.SocialPlatforms, p)
			}
		}
		if ad, ok := site.AuthorityDomain(link); ok && !slices.Contains(rec.AuthorityDomains, ad) {
			rec.AuthorityDomains = append(rec.AuthorityDomains, ad)
		}
	})
}
