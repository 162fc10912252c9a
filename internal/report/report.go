// Package report turns a site's signals into a human-facing trust report:
// rule findings with remediation, a weighted 0-100 score, a site type and a
// structured-data breakdown.
package report

import "github.com/sells-group/answer-trust/internal/model"

// Version identifies the rule set a report was produced with.
const Version = "r1.0"

// Summary is the one-line verdict of a report.
type Summary struct {
	Conclusion  string `json:"conclusion"`
	Grade       string `json:"grade"`
	TotalIssues int    `json:"total_issues"`
}

// Report is the supplemental site report.
type Report struct {
	ReportVersion      string         `json:"report_version"`
	Site               string         `json:"site"`
	RulesFired         []RuleID       `json:"rules_fired"`
	Summary            Summary        `json:"summary"`
	Score              int            `json:"score"`
	ScoreGrade         string         `json:"score_grade"`
	SiteType           SiteType       `json:"site_type"`
	SiteTypeConfidence float64        `json:"site_type_confidence"`
	Issues             []Issue        `json:"issues"`
	Suggestions        []Suggestion   `json:"suggestions"`
	Schema             SchemaAnalysis `json:"schema"`
	DifficultSite      *DifficultSite `json:"difficult_site,omitempty"`
	Meta               model.Meta     `json:"meta"`
}

// Generate builds the report for sig. schemas are the representative page's
// schema objects.
func Generate(sig model.SiteSignals, schemas []map[string]any, inputSource string) Report {
	r := Report{
		ReportVersion: Version,
		Site:          sig.URL,
		RulesFired:    []RuleID{},
		Issues:        []Issue{},
		Suggestions:   []Suggestion{},
		Schema:        AnalyzeSchemas(schemas),
		DifficultSite: LookupDifficult(sig.URL),
		Meta:          model.NewMeta(inputSource),
	}

	for _, rule := range Evaluate(sig) {
		r.RulesFired = append(r.RulesFired, rule.ID)
		issue := rule.Issue
		issue.Rule = rule.ID
		r.Issues = append(r.Issues, issue)
		r.Suggestions = append(r.Suggestions, rule.Suggestion)
	}

	r.SiteType, r.SiteTypeConfidence = Classify(sig)
	r.Suggestions = append(r.Suggestions, TypeSuggestions(sig, r.SiteType)...)

	grade := IssueGrade(len(r.RulesFired))
	r.Summary = Summary{
		Conclusion:  conclusions[grade],
		Grade:       grade,
		TotalIssues: len(r.Issues),
	}
	r.Score = WeightedScore(sig)
	r.ScoreGrade = ScoreGrade(r.Score)
	return r
}
