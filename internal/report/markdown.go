package report

import (
	"fmt"
	"strings"
)

// Markdown renders r as a human-readable report.
func Markdown(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Trust Report: %s\n\n", r.Site)
	fmt.Fprintf(&sb, "- Score: **%d/100** (grade %s)\n", r.Score, r.ScoreGrade)
	fmt.Fprintf(&sb, "- Verdict: %s (grade %s, %d issues)\n", r.Summary.Conclusion, r.Summary.Grade, r.Summary.TotalIssues)
	fmt.Fprintf(&sb, "- Site type: %s (confidence %.2f)\n", r.SiteType, r.SiteTypeConfidence)
	fmt.Fprintf(&sb, "- Structured data: %d/%d\n", r.Schema.Score, r.Schema.MaxScore)

	if d := r.DifficultSite; d != nil {
		fmt.Fprintf(&sb, "\n> **Note:** %s is hard to crawl (%s). %s\n", d.Name, d.Reason, d.Note)
	}

	sb.WriteString("\n## Issues\n\n")
	if len(r.Issues) == 0 {
		sb.WriteString("No issues found.\n")
	}
	for _, is := range r.Issues {
		fmt.Fprintf(&sb, "### %s %s (%s)\n\n%s\n\n", is.Rule, is.Title, is.Severity, is.Description)
		if is.Why != "" {
			fmt.Fprintf(&sb, "_Why it matters:_ %s\n\n", is.Why)
		}
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("## Suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&sb, "- **%s** [priority %s, effort %s, impact %s]\n", s.Action, s.Priority, s.Effort, s.Impact)
			for _, step := range s.HowTo {
				fmt.Fprintf(&sb, "  - %s\n", step)
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Schema.Details) > 0 {
		sb.WriteString("## Structured Data\n\n")
		for _, d := range r.Schema.Details {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "---\nGenerated %s by answer-trust %s (rules %s)\n", r.Meta.GeneratedAt, r.Meta.ToolVersion, r.ReportVersion)
	return sb.String()
}
