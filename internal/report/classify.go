package report

import "github.com/sells-group/answer-trust/internal/model"

// SiteType is a coarse classification of what a site is for.
type SiteType string

const (
	SiteEcommerce SiteType = "ecommerce"
	SiteBlog      SiteType = "blog"
	SiteCorporate SiteType = "corporate"
	SitePersonal  SiteType = "personal"
	SiteUnknown   SiteType = "unknown"
)

// Classify guesses the site type from its schema and page markers, with a
// confidence in [0,1]. The first matching type wins.
func Classify(s model.SiteSignals) (SiteType, float64) {
	switch {
	case s.HasSchemaType("Product") || s.HasSchemaType("Offer"):
		return SiteEcommerce, 0.9
	case s.HasArticle() && s.HasAuthor():
		return SiteBlog, 0.85
	case s.HasOrganization() && s.HasContact:
		return SiteCorporate, 0.8
	case s.HasPerson() && !s.HasOrganization():
		return SitePersonal, 0.75
	}
	return SiteUnknown, 0.5
}

// TypeSuggestions returns suggestions specific to the site type.
func TypeSuggestions(s model.SiteSignals, t SiteType) []Suggestion {
	out := []Suggestion{}
	if t == SiteEcommerce && !s.HasSchemaType("Product") {
		out = append(out, Suggestion{
			Priority:   "high",
			Effort:     "medium",
			Impact:     "high",
			Action:     "Add Product Schema.org structured data",
			ImpactDesc: "Lets search engines show product details and prices, raising click-through",
			HowTo: []string{
				"1. See https://schema.org/Product",
				"2. Add JSON-LD to every product page",
				"3. Include name, price, availability and image",
				"4. Validate it with the Rich Results Test",
			},
		})
	}
	return out
}
