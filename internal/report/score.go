package report

import "github.com/sells-group/answer-trust/internal/model"

// Score weights. They sum to 100.
const (
	weightHTTPS       = 20
	weightSchemaMax   = 20
	weightTitle       = 15
	weightDescription = 10
	weightAuthor      = 10
	weightFavicon     = 5
	weightSocial      = 5
	weightAuthority   = 5
)

// WeightedScore rates s on a 0..100 scale.
func WeightedScore(s model.SiteSignals) int {
	score := 0
	if s.HasHTTPS {
		score += weightHTTPS
	}
	if s.HasSchema() {
		schema := 10
		if s.HasOrganization() {
			schema += 3
		}
		if s.HasPerson() {
			schema += 3
		}
		if s.HasArticle() {
			schema += 4
		}
		score += min(schema, weightSchemaMax)
	}
	if s.HasTitle {
		score += weightTitle
	}
	if s.HasDescription {
		score += weightDescription
	}
	if s.HasAuthor() {
		score += weightAuthor
	}
	if s.HasFavicon {
		score += weightFavicon
	}
	if s.HasSocialProof() {
		score += weightSocial
	}
	if s.HasAuthorityLinks() {
		score += weightAuthority
	}
	score += performancePoints(s.PageLoadTime)
	return min(score, 100)
}

// performancePoints scores the home page load time. An unmeasured or zero
// load time earns nothing.
func performancePoints(loadTime *float64) int {
	if loadTime == nil || *loadTime <= 0 {
		return 0
	}
	switch t := *loadTime; {
	case t < 2:
		return 10
	case t < 3:
		return 7
	case t < 5:
		return 5
	}
	return 0
}

// ScoreGrade maps a weighted score to a letter grade.
func ScoreGrade(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	}
	return "D"
}

// IssueGrade maps the number of fired rules to a letter grade.
func IssueGrade(issues int) string {
	switch {
	case issues == 0:
		return "A"
	case issues <= 2:
		return "B"
	case issues <= 4:
		return "C"
	}
	return "D"
}

var conclusions = map[string]string{
	"A": "The site already has an excellent AI-trust structure",
	"B": "The site has a basic trust structure but there is room to improve",
	"C": "The site is missing several key signals; fix these first",
	"D": "The site does not yet have stable, citable AI trust",
}
