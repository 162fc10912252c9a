// Package drift compares captured AI outputs with an AFB's canonical answer.
package drift

import (
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/answer-trust/internal/model"
)

// Difference descriptions, from closest to furthest.
const (
	DiffMinor       = "minor wording difference"
	DiffPartial     = "partial description difference"
	DiffSignificant = "significant content difference"
)

// Similarity is a normalised edit-distance ratio in [0,1]. It is symmetric
// and Similarity(s, s) == 1 for non-empty s, whitespace-only included.
// Otherwise either side empty after normalisation scores 0.
func Similarity(a, b string) float64 {
	if a == b && a != "" {
		return 1
	}
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return levenshtein.Similarity(a, b, nil)
}

func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Risk buckets a similarity score.
func Risk(similarity float64) model.HallucinationRisk {
	switch {
	case similarity >= 0.90:
		return model.RiskLow
	case similarity >= 0.70:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Differences returns a coarse description of how b departs from a.
// Identical text has no differences.
func Differences(a, b string, similarity float64) []string {
	if normalize(a) == normalize(b) {
		return []string{}
	}
	switch {
	case similarity > 0.95:
		return []string{DiffMinor}
	case similarity > 0.80:
		return []string{DiffPartial}
	default:
		return []string{DiffSignificant}
	}
}
