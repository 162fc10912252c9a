package report

import "github.com/sells-group/answer-trust/internal/model"

// RuleID identifies a report rule.
type RuleID string

const (
	RuleMissingTitle       RuleID = "R001"
	RuleMissingDescription RuleID = "R002"
	RuleNoSchema           RuleID = "R003"
	RuleNoAuthor           RuleID = "R004"
	RuleNoHTTPS            RuleID = "R005"
)

// Issue describes a problem a rule found.
type Issue struct {
	Rule        RuleID `json:"rule_id"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Why         string `json:"why"`
}

// Suggestion is the remediation paired with an Issue.
type Suggestion struct {
	Priority   string   `json:"priority"`
	Effort     string   `json:"effort"`
	Impact     string   `json:"impact"`
	Action     string   `json:"action"`
	ImpactDesc string   `json:"impact_desc"`
	HowTo      []string `json:"how_to"`
}

// Rule binds an identifier to a predicate over signals and the text it emits
// when the predicate holds.
type Rule struct {
	ID         RuleID
	Fires      func(model.SiteSignals) bool
	Issue      Issue
	Suggestion Suggestion
}

func missingTitle(s model.SiteSignals) bool       { return !s.HasTitle }
func missingDescription(s model.SiteSignals) bool { return !s.HasDescription }
func noSchema(s model.SiteSignals) bool           { return s.SchemaCount == 0 }
func noAuthor(s model.SiteSignals) bool           { return !s.HasAuthor() }
func noHTTPS(s model.SiteSignals) bool            { return !s.HasHTTPS }

// Rules returns the rule set in evaluation order.
func Rules() []Rule {
	return []Rule{
		{
			ID:    RuleMissingTitle,
			Fires: missingTitle,
			Issue: Issue{
				Severity:    "high",
				Title:       "The site has no clear title",
				Description: "AI systems and search engines cannot quickly tell what the site is about, which weakens its authority.",
				Why:         "The title is the first thing an AI reads to understand a site",
			},
			Suggestion: Suggestion{
				Priority:   "high",
				Effort:     "easy",
				Impact:     "high",
				Action:     "Add a <title> tag to the page source",
				ImpactDesc: "Immediately improves search ranking and AI citation rate",
				HowTo: []string{
					"1. Open the site's HTML file",
					"2. Add <title>Your Site Name</title> inside <head>",
					"3. Keep the title short and descriptive (50-60 characters)",
					"4. Save and redeploy the site",
				},
			},
		},
		{
			ID:    RuleMissingDescription,
			Fires: missingDescription,
			Issue: Issue{
				Severity:    "medium",
				Title:       "The site has no description",
				Description: "Without a meta description an AI cannot summarise the site's value without reading all of it.",
				Why:         "A description helps AI summarise the site quickly",
			},
			Suggestion: Suggestion{
				Priority:   "medium",
				Effort:     "easy",
				Impact:     "medium",
				Action:     "Write and add a <meta name='description'> tag",
				ImpactDesc: "Raises click-through from search results and helps AI summaries",
				HowTo: []string{
					"1. Write a 150-160 character description of the site",
					"2. Add <meta name='description' content='your description'> inside <head>",
					"3. Make sure it contains key terms and reads well",
					"4. Save and redeploy",
				},
			},
		},
		{
			ID:    RuleNoSchema,
			Fires: noSchema,
			Issue: Issue{
				Severity:    "high",
				Title:       "No structured data (Schema.org)",
				Description: "Without JSON-LD structured data an AI cannot tell what kind of site this is or how its content is organised.",
				Why:         "Structured data is the key to AI understanding of a site",
			},
			Suggestion: Suggestion{
				Priority:   "high",
				Effort:     "medium",
				Impact:     "high",
				Action:     "Add Schema.org JSON-LD structured data",
				ImpactDesc: "Greatly improves AI understanding and citation of the site",
				HowTo: []string{
					"1. Pick a suitable type at https://schema.org (Organization/WebSite/Article)",
					"2. Generate the JSON-LD with a structured data markup helper",
					"3. Add the JSON-LD to <head> or <body>",
					"4. Validate it with the Rich Results Test",
				},
			},
		},
		{
			ID:    RuleNoAuthor,
			Fires: noAuthor,
			Issue: Issue{
				Severity:    "medium",
				Title:       "No author information",
				Description: "Content has no clear author, which lowers credibility and authority.",
				Why:         "Authorship is an important credibility signal",
			},
			Suggestion: Suggestion{
				Priority:   "medium",
				Effort:     "easy",
				Impact:     "medium",
				Action:     "Add author information to the content",
				ImpactDesc: "Improves credibility and professional image",
				HowTo: []string{
					"1. Show the author's name on article pages",
					"2. Use <meta name='author' content='Author Name'>",
					"3. Or add an author field to the Schema.org Article",
					"4. Consider adding an author bio and social links",
				},
			},
		},
		{
			ID:    RuleNoHTTPS,
			Fires: noHTTPS,
			Issue: Issue{
				Severity:    "high",
				Title:       "HTTPS is not used",
				Description: "The site is served over HTTP instead of HTTPS and is not secure.",
				Why:         "HTTPS is a baseline requirement for a modern site",
			},
			Suggestion: Suggestion{
				Priority:   "high",
				Effort:     "medium",
				Impact:     "high",
				Action:     "Enable HTTPS",
				ImpactDesc: "Improves security and search ranking",
				HowTo: []string{
					"1. Obtain a TLS certificate (Let's Encrypt is free)",
					"2. Install the certificate on the server",
					"3. Redirect HTTP to HTTPS",
					"4. Update internal links to HTTPS",
				},
			},
		},
	}
}

// Evaluate returns the rules that fire for s, in rule order.
func Evaluate(s model.SiteSignals) []Rule {
	var fired []Rule
	for _, r := range Rules() {
		if r.Fires(s) {
			fired = append(fired, r)
		}
	}
	return fired
}
