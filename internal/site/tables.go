package site

import "strings"

// socialPlatforms maps a registrable domain to its platform name.
var socialPlatforms = map[string]string{
	"twitter.com":   "Twitter",
	"x.com":         "X (Twitter)",
	"facebook.com":  "Facebook",
	"linkedin.com":  "LinkedIn",
	"github.com":    "GitHub",
	"instagram.com": "Instagram",
	"youtube.com":   "YouTube",
	"tiktok.com":    "TikTok",
}

// authorityDomains are reference sources treated as authoritative regardless of TLD.
var authorityDomains = map[string]bool{
	"wikipedia.org":     true,
	"wikidata.org":      true,
	"britannica.com":    true,
	"doi.org":           true,
	"arxiv.org":         true,
	"nature.com":        true,
	"sciencedirect.com": true,
	"springer.com":      true,
	"reuters.com":       true,
	"apnews.com":        true,
	"bbc.co.uk":         true,
	"w3.org":            true,
	"ietf.org":          true,
	"iso.org":           true,
	"schema.org":        true,
}

// authorityLabels are second-level labels that mark institutional suffixes
// such as gov.uk, edu.au or ac.jp.
var authorityLabels = map[string]bool{"gov": true, "edu": true, "mil": true, "ac": true, "int": true}

// SocialPlatform returns the platform name when rawURL belongs to a known
// social network.
func SocialPlatform(rawURL string) (string, bool) {
	p, ok := socialPlatforms[RegistrableDomain(rawURL)]
	return p, ok
}

// AuthorityDomain returns the registrable domain of rawURL when it is an
// authority source: a government, education, military or intergovernmental
// suffix, or a listed reference site.
func AuthorityDomain(rawURL string) (string, bool) {
	d := RegistrableDomain(rawURL)
	if d == "" {
		return "", false
	}
	if authorityDomains[d] {
		return d, true
	}
	labels := strings.Split(d, ".")
	for _, l := range labels[1:] {
		if authorityLabels[l] {
			return d, true
		}
	}
	return "", false
}
