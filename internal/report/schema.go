package report

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// SchemaMaxScore is the ceiling of AnalyzeSchemas.
const SchemaMaxScore = 30

// requiredFields lists the properties a complete object of each type carries.
var requiredFields = map[string][]string{
	"Organization":   {"name", "url", "logo", "description"},
	"LocalBusiness":  {"name", "image", "address", "telephone"},
	"Article":        {"headline", "author", "datePublished", "image"},
	"NewsArticle":    {"headline", "author", "datePublished", "image"},
	"BlogPosting":    {"headline", "author", "datePublished"},
	"Product":        {"name", "image", "description", "offers"},
	"Person":         {"name", "jobTitle", "worksFor"},
	"BreadcrumbList": {"itemListElement"},
	"FAQPage":        {"mainEntity"},
	"JobPosting":     {"title", "description", "datePosted"},
	"Event":          {"name", "startDate", "location"},
	"Recipe":         {"name", "image", "author", "recipeIngredient"},
	"Review":         {"author", "reviewRating", "itemReviewed"},
	"WebSite":        {"name", "url", "potentialAction"},
}

var coreTypes = []string{"Organization", "WebSite", "LocalBusiness"}

// SchemaAnalysis is the structured-data quality breakdown.
type SchemaAnalysis struct {
	Score        int      `json:"score"`
	MaxScore     int      `json:"max_score"`
	Types        []string `json:"types"`
	Details      []string `json:"details"`
	Completeness float64  `json:"completeness"`
}

// AnalyzeSchemas rates schema objects for presence, type diversity,
// required-field completeness, nesting and core identity types.
func AnalyzeSchemas(schemas []map[string]any) SchemaAnalysis {
	a := SchemaAnalysis{MaxScore: SchemaMaxScore, Types: []string{}}
	if len(schemas) == 0 {
		a.Details = []string{"No Schema.org structured data detected"}
		return a
	}

	score := 5
	a.Details = append(a.Details, "Schema.org structured data detected (+5)")

	for _, s := range schemas {
		for _, t := range typesOf(s) {
			if !slices.Contains(a.Types, t) {
				a.Types = append(a.Types, t)
			}
		}
	}
	diversity := min(len(a.Types)*2, 8)
	score += diversity
	shown := strings.Join(a.Types[:min(len(a.Types), 3)], ", ")
	if len(a.Types) > 3 {
		shown += "..."
	}
	a.Details = append(a.Details, fmt.Sprintf("%d distinct schema types (%s) (+%d)", len(a.Types), shown, diversity))

	a.Completeness = completeness(schemas)
	quality := min(int(math.Round(a.Completeness*10)), 10)
	score += quality
	pct := int(a.Completeness * 100)
	switch {
	case pct >= 80:
		a.Details = append(a.Details, fmt.Sprintf("Schema fields are very complete (%d%%) (+%d)", pct, quality))
	case pct >= 50:
		a.Details = append(a.Details, fmt.Sprintf("Schema fields are mostly complete (%d%%) (+%d)", pct, quality))
	default:
		a.Details = append(a.Details, fmt.Sprintf("Schema fields are missing; fill them in (%d%%) (+%d)", pct, quality))
	}

	if slices.ContainsFunc(schemas, nested) {
		score += 5
		a.Details = append(a.Details, "Nested structure detected (+5)")
	}

	if slices.ContainsFunc(a.Types, func(t string) bool { return slices.Contains(coreTypes, t) }) {
		score += 2
		a.Details = append(a.Details, "Core identity data present (Organization/WebSite) (+2)")
	}

	a.Score = min(score, SchemaMaxScore)
	return a
}

func typesOf(s map[string]any) []string {
	switch t := s["@type"].(type) {
	case string:
		if t != "" {
			return []string{t}
		}
	case []any:
		var out []string
		for _, x := range t {
			if str, ok := x.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// completeness averages the share of required fields present across objects
// of known types. With no known types it is 0.5.
func completeness(schemas []map[string]any) float64 {
	var sum float64
	var n int
	for _, s := range schemas {
		types := typesOf(s)
		if len(types) == 0 {
			continue
		}
		req, ok := requiredFields[types[0]]
		if !ok {
			continue
		}
		present := 0
		for _, f := range req {
			if truthy(s[f]) {
				present++
			}
		}
		sum += float64(present) / float64(len(req))
		n++
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// nested reports whether any property of s is a typed object or a list
// starting with one.
func nested(s map[string]any) bool {
	for _, v := range s {
		switch x := v.(type) {
		case map[string]any:
			if _, ok := x["@type"]; ok {
				return true
			}
		case []any:
			if len(x) > 0 {
				if m, ok := x[0].(map[string]any); ok {
					if _, ok := m["@type"]; ok {
						return true
					}
				}
			}
		}
	}
	return false
}
