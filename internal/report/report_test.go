package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-trust/internal/model"
)

func ptr(f float64) *float64 { return &f }

func strong() model.SiteSignals {
	return model.SiteSignals{
		URL:                 "https://acme.com",
		HasTitle:            true,
		HasDescription:      true,
		HasFavicon:          true,
		HasHTTPS:            true,
		SchemaCount:         3,
		SchemaTypes:         []string{"Organization", "Person", "Article"},
		AuthorCount:         1,
		AuthorNames:         []string{"Jane Doe"},
		SocialLinksCount:    2,
		AuthorityLinksCount: 1,
		PageLoadTime:        ptr(1.2),
		PageCount:           1,
	}
}

func TestEvaluate_AllRulesFireOnEmptySignals(t *testing.T) {
	t.Parallel()

	fired := Evaluate(model.SiteSignals{URL: "http://acme.com"})
	ids := make([]RuleID, 0, len(fired))
	for _, r := range fired {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []RuleID{RuleMissingTitle, RuleMissingDescription, RuleNoSchema, RuleNoAuthor, RuleNoHTTPS}, ids)
}

func TestEvaluate_NoneFireOnStrongSite(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Evaluate(strong()))
}

func TestRules_EachPredicateIsolated(t *testing.T) {
	t.Parallel()

	tests := map[RuleID]func(*model.SiteSignals){
		RuleMissingTitle:       func(s *model.SiteSignals) { s.HasTitle = false },
		RuleMissingDescription: func(s *model.SiteSignals) { s.HasDescription = false },
		RuleNoSchema:           func(s *model.SiteSignals) { s.SchemaCount = 0 },
		RuleNoAuthor:           func(s *model.SiteSignals) { s.AuthorCount = 0 },
		RuleNoHTTPS:            func(s *model.SiteSignals) { s.HasHTTPS = false },
	}
	for id, mutate := range tests {
		t.Run(string(id), func(t *testing.T) {
			s := strong()
			mutate(&s)
			fired := Evaluate(s)
			require.Len(t, fired, 1)
			assert.Equal(t, id, fired[0].ID)
			assert.NotEmpty(t, fired[0].Issue.Title)
			assert.Len(t, fired[0].Suggestion.HowTo, 4)
		})
	}
}

func TestWeightedScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, WeightedScore(strong()))
	assert.Equal(t, 0, WeightedScore(model.SiteSignals{}))

	s := strong()
	s.SchemaTypes = []string{"WebSite"}
	s.PageLoadTime = ptr(2.5)
	// 20 + 10 + 15 + 10 + 10 + 5 + 5 + 5 + 7
	assert.Equal(t, 87, WeightedScore(s))

	s.PageLoadTime = ptr(4.9)
	assert.Equal(t, 85, WeightedScore(s))
	s.PageLoadTime = ptr(6)
	assert.Equal(t, 80, WeightedScore(s))
	s.PageLoadTime = ptr(0)
	assert.Equal(t, 80, WeightedScore(s))
	s.PageLoadTime = nil
	assert.Equal(t, 80, WeightedScore(s))
}

func TestGrades(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A", ScoreGrade(80))
	assert.Equal(t, "B", ScoreGrade(79))
	assert.Equal(t, "B", ScoreGrade(60))
	assert.Equal(t, "C", ScoreGrade(40))
	assert.Equal(t, "D", ScoreGrade(39))

	assert.Equal(t, "A", IssueGrade(0))
	assert.Equal(t, "B", IssueGrade(2))
	assert.Equal(t, "C", IssueGrade(4))
	assert.Equal(t, "D", IssueGrade(5))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  model.SiteSignals
		want SiteType
		conf float64
	}{
		{"offer", model.SiteSignals{SchemaTypes: []string{"Offer"}}, SiteEcommerce, 0.9},
		{"blog", model.SiteSignals{SchemaTypes: []string{"BlogPosting"}, AuthorCount: 1}, SiteBlog, 0.85},
		{"article without author", model.SiteSignals{SchemaTypes: []string{"Article"}}, SiteUnknown, 0.5},
		{"corporate", model.SiteSignals{SchemaTypes: []string{"Organization"}, HasContact: true}, SiteCorporate, 0.8},
		{"personal", model.SiteSignals{SchemaTypes: []string{"Person"}}, SitePersonal, 0.75},
		{"person at org", model.SiteSignals{SchemaTypes: []string{"Person", "Organization"}}, SiteUnknown, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := Classify(tt.sig)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.conf, conf)
		})
	}
}

func TestTypeSuggestions(t *testing.T) {
	t.Parallel()

	offerOnly := model.SiteSignals{SchemaTypes: []string{"Offer"}}
	assert.Len(t, TypeSuggestions(offerOnly, SiteEcommerce), 1)

	withProduct := model.SiteSignals{SchemaTypes: []string{"Product"}}
	assert.Empty(t, TypeSuggestions(withProduct, SiteEcommerce))
	assert.Empty(t, TypeSuggestions(withProduct, SiteBlog))
}

func TestAnalyzeSchemas_Empty(t *testing.T) {
	t.Parallel()

	a := AnalyzeSchemas(nil)
	assert.Zero(t, a.Score)
	assert.Equal(t, SchemaMaxScore, a.MaxScore)
	assert.Len(t, a.Details, 1)
}

func TestAnalyzeSchemas_Complete(t *testing.T) {
	t.Parallel()

	a := AnalyzeSchemas([]map[string]any{
		{"@type": "Organization", "name": "Acme", "url": "https://acme.com", "logo": "/l.png", "description": "Rockets"},
		{"@type": "Article", "headline": "h", "datePublished": "2025-01-01", "image": "i.png",
			"author": map[string]any{"@type": "Person", "name": "Jane"}},
	})

	assert.Equal(t, []string{"Organization", "Article"}, a.Types)
	assert.Equal(t, 1.0, a.Completeness)
	// 5 + 4 + 10 + 5 + 2
	assert.Equal(t, 26, a.Score)
}

func TestAnalyzeSchemas_PartialUnknownTypes(t *testing.T) {
	t.Parallel()

	a := AnalyzeSchemas([]map[string]any{{"@type": "Thing", "name": "x"}})
	assert.Equal(t, 0.5, a.Completeness)
	// 5 + 2 + 5
	assert.Equal(t, 12, a.Score)
}

func TestAnalyzeSchemas_Capped(t *testing.T) {
	t.Parallel()

	var schemas []map[string]any
	for _, ty := range []string{"Organization", "WebSite", "BreadcrumbList", "FAQPage", "Event"} {
		schemas = append(schemas, map[string]any{"@type": ty, "itemListElement": []any{map[string]any{"@type": "ListItem"}}})
	}
	a := AnalyzeSchemas(schemas)
	assert.LessOrEqual(t, a.Score, SchemaMaxScore)
	assert.Len(t, a.Types, 5)
}

func TestLookupDifficult(t *testing.T) {
	t.Parallel()

	d := LookupDifficult("https://en.wikipedia.org/wiki/Go")
	require.NotNil(t, d)
	assert.Equal(t, "Wikipedia", d.Name)
	assert.Equal(t, 90, d.EstimatedScore)

	d = LookupDifficult("https://www.github.com/acme")
	require.NotNil(t, d)
	assert.Equal(t, "github.com", d.Domain)

	assert.Nil(t, LookupDifficult("https://acme.com"))
	assert.Nil(t, LookupDifficult(""))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	sig := model.SiteSignals{URL: "http://shop.example", SchemaCount: 1, SchemaTypes: []string{"Offer"}, HasTitle: true}
	r := Generate(sig, []map[string]any{{"@type": "Offer", "price": "1"}}, "site.json")

	assert.Equal(t, Version, r.ReportVersion)
	assert.Equal(t, []RuleID{RuleMissingDescription, RuleNoAuthor, RuleNoHTTPS}, r.RulesFired)
	assert.Len(t, r.Issues, 3)
	assert.Equal(t, RuleNoHTTPS, r.Issues[2].Rule)
	assert.Len(t, r.Suggestions, 4)
	assert.Equal(t, "C", r.Summary.Grade)
	assert.Equal(t, 3, r.Summary.TotalIssues)
	assert.NotEmpty(t, r.Summary.Conclusion)
	assert.Equal(t, SiteEcommerce, r.SiteType)
	// schema 10 + title 15
	assert.Equal(t, 25, r.Score)
	assert.Equal(t, "D", r.ScoreGrade)
	assert.Nil(t, r.DifficultSite)
	assert.Equal(t, "site.json", r.Meta.InputSource)
}
