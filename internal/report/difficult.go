package report

import (
	"strings"

	"github.com/sells-group/answer-trust/internal/site"
)

// DifficultSite describes a site known to resist automated crawling, with an
// estimated score to show instead of a misleading measured one.
type DifficultSite struct {
	Domain          string `json:"domain"`
	Name            string `json:"name"`
	Reason          string `json:"reason"`
	EstimatedScore  int    `json:"estimated_score"`
	EstimatedGrade  string `json:"estimated_grade"`
	Note            string `json:"note"`
	DetectionMethod string `json:"detection_method"`
}

var difficultSites = []DifficultSite{
	{
		Domain:          "wikipedia.org",
		Name:            "Wikipedia",
		Reason:          "Wikipedia applies strict anti-crawling measures to protect its servers",
		EstimatedScore:  90,
		EstimatedGrade:  "A",
		Note:            "The largest open knowledge base, with complete structured data and very high external citation; its real score is likely 85-95",
		DetectionMethod: "partial",
	},
	{
		Domain:          "developer.mozilla.org",
		Name:            "MDN Web Docs",
		Reason:          "MDN uses advanced protection to keep its documentation service stable",
		EstimatedScore:  92,
		EstimatedGrade:  "A",
		Note:            "The authoritative front-end reference, with excellent structured data and community trust; its real score is likely 88-95",
		DetectionMethod: "partial",
	},
	{
		Domain:          "github.com",
		Name:            "GitHub",
		Reason:          "GitHub rate-limits automated access",
		EstimatedScore:  88,
		EstimatedGrade:  "A",
		Note:            "The largest code hosting platform, with full technical authority; its real score is likely 85-92",
		DetectionMethod: "partial",
	},
}

// LookupDifficult returns the entry whose domain appears in rawURL's host,
// or nil.
func LookupDifficult(rawURL string) *DifficultSite {
	host := site.Host(rawURL)
	if host == "" {
		return nil
	}
	for _, d := range difficultSites {
		if strings.Contains(host, d.Domain) {
			out := d
			return &out
		}
	}
	return nil
}
