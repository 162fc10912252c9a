// Package signals reduces a crawl into a single Site Signal Set.
package signals

import (
	"slices"

	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/site"
)

// Extract builds the signal set for a crawl. Presence flags come from the
// representative page (the first fetched page). Once any page was fetched,
// counts and unions span every Page Record, so a failed page counts toward
// page_count with its title and description missing. A crawl with nothing
// fetched leaves page_count at zero.
func Extract(res model.CrawlResult) model.SiteSignals {
	sig := model.SiteSignals{
		URL:              res.Site,
		HasHTTPS:         site.IsHTTPS(res.Site),
		SitemapFound:     res.Checks.SitemapOK,
		SchemaTypes:      []string{},
		AuthorNames:      []string{},
		SocialPlatforms:  []string{},
		AuthorityDomains: []string{},
	}

	for _, p := range res.Pages {
		if p.IsAboutAuthor {
			sig.HasAboutPage = true
		}
		if p.IsContact {
			sig.HasContact = true
		}
	}

	fetched := res.FetchedPages()
	if len(fetched) == 0 {
		return sig
	}
	sig.PageCount = len(res.Pages)

	home := fetched[0]
	sig.HasTitle = !home.TitleMissing
	sig.HasDescription = !home.MetaMissing
	sig.HasFavicon = home.HasFavicon
	sig.HasViewport = home.HasViewport
	sig.SchemaCount = len(home.Schemas)
	sig.SchemaTypes = append(sig.SchemaTypes, home.SchemaTypes...)
	lt := home.LoadTime
	sig.PageLoadTime = &lt

	for _, p := range res.Pages {
		if p.TitleMissing {
			sig.TitlesMissing++
		}
		if p.MetaMissing {
			sig.DescriptionsMissing++
		}
		if p.HasJSONLD {
			sig.JSONLDPages++
		}
		sig.OutboundLinksCount += p.OutboundLinksCount
		sig.ExternalLinksCount += p.ExternalLinksCount
		sig.SocialLinksCount += p.SocialLinksCount
		sig.AuthorNames = union(sig.AuthorNames, p.AuthorNames)
		sig.SocialPlatforms = union(sig.SocialPlatforms, p.SocialPlatforms)
		sig.AuthorityDomains = union(sig.AuthorityDomains, p.AuthorityDomains)
	}
	sig.AuthorCount = len(sig.AuthorNames)
	sig.AuthorityLinksCount = len(sig.AuthorityDomains)
	return sig
}

func union(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}
