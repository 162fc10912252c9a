// Package entity computes a site's entity confidence and eligibility.
package entity

import (
	"math"

	"github.com/sells-group/answer-trust/internal/model"
)

// Dimension weights, in percent so the weighted sum rounds exactly.
const (
	weightConsistency = 30
	weightAuthority   = 25
	weightCitation    = 15
	weightFrequency   = 15
	weightSocial      = 15
)

const (
	externalLinksForFullCitation = 4.0
	socialLinksForFullSocial     = 1.5

	frequencyWithSitemap    = 0.8
	frequencyWithoutSitemap = 0.5

	authorityAboutPage      = 0.6
	authorityStructuredData = 0.4
)

// Scorer computes Entity Profiles. It holds no state and is safe to share.
type Scorer struct{}

// NewScorer returns a Scorer.
func NewScorer() Scorer { return Scorer{} }

// EntityID returns the entity identifier for a site.
func EntityID(site string) string {
	if site == "" {
		site = "unknown"
	}
	return "ent:" + site
}

// Score reduces sig to an Entity Profile. A signal set with no fetched pages
// scores zero on every dimension and fails the gate.
func (Scorer) Score(sig model.SiteSignals, inputSource string) model.EntityProfile {
	p := model.EntityProfile{
		EntityID:    EntityID(sig.URL),
		Eligibility: model.EligibilityFail,
		Meta:        model.NewMeta(inputSource),
	}
	if sig.PageCount == 0 {
		return p
	}

	n := float64(sig.PageCount)
	d := model.DimensionScores{
		Consistency: 1 - float64(sig.TitlesMissing+sig.DescriptionsMissing)/(2*n),
		Citation:    math.Min(float64(sig.ExternalLinksCount)/n/externalLinksForFullCitation, 1),
		Frequency:   frequencyWithoutSitemap,
		Social:      math.Min(float64(sig.SocialLinksCount)/n/socialLinksForFullSocial, 1),
	}
	if sig.HasAboutPage {
		d.Authority += authorityAboutPage
	}
	if sig.HasStructuredData() {
		d.Authority += authorityStructuredData
	}
	if sig.SitemapFound {
		d.Frequency = frequencyWithSitemap
	}

	pct := weightConsistency*d.Consistency +
		weightAuthority*d.Authority +
		weightCitation*d.Citation +
		weightFrequency*d.Frequency +
		weightSocial*d.Social
	p.EntityConfidence = clamp01(math.Round(pct) / 100)

	p.Signals = model.DimensionScores{
		Consistency: round2(d.Consistency),
		Authority:   round2(d.Authority),
		Citation:    round2(d.Citation),
		Frequency:   round2(d.Frequency),
		Social:      round2(d.Social),
	}
	p.Eligibility = model.EligibilityFor(p.EntityConfidence)
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
