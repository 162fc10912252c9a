// Package citation scores the citations attached to an AFB and decides
// whether they support it.
package citation

import (
	"fmt"
	"math"

	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/site"
)

// Score thresholds and adjustments.
const (
	BaseVerified   = 0.8
	BaseUnverified = 0.5

	SocialPenalty = 0.2
	StalePenalty  = 0.1
	StaleAfter    = 365

	RejectBelow    = 0.60
	DowngradeBelow = 0.75
)

// socialDomains are the networks whose citations carry SocialPenalty. The
// crawler's wider platform table is for link counting only.
var socialDomains = map[string]bool{
	"twitter.com":  true,
	"x.com":        true,
	"facebook.com": true,
	"linkedin.com": true,
}

func isSocial(rawURL string) bool {
	return socialDomains[site.RegistrableDomain(rawURL)]
}

// Aggregate reasons.
const (
	ReasonNoCitations  = "no_citations_found"
	ReasonAllRejected  = "All citations rejected due to low CCS"
	ReasonSomeRejected = "Some citations rejected"
)

// Evaluator scores citations. It holds no state and is safe to share.
type Evaluator struct{}

// NewEvaluator returns an Evaluator.
func NewEvaluator() Evaluator { return Evaluator{} }

// Score returns the citation confidence score for c, rounded to 2 decimals.
func Score(c model.Citation) float64 {
	ccs := BaseUnverified
	if c.VerificationStatus == model.VerificationVerified {
		ccs = BaseVerified
	}
	if isSocial(c.URL) {
		ccs -= SocialPenalty
	}
	if c.AgeInDays > StaleAfter {
		ccs -= StalePenalty
	}
	ccs = math.Max(0, math.Min(1, ccs))
	return math.Round(ccs*100) / 100
}

// Status maps a score to a per-citation status.
func Status(ccs float64) model.Decision {
	switch {
	case ccs < RejectBelow:
		return model.DecisionReject
	case ccs < DowngradeBelow:
		return model.DecisionDowngrade
	default:
		return model.DecisionAccept
	}
}

// Evaluate scores every citation and derives the aggregate decision. A
// rejection is a result, not an error.
func (Evaluator) Evaluate(afbID string, cites []model.Citation, inputSource string) model.CitationEvaluation {
	ev := model.CitationEvaluation{
		AFBID:     afbID,
		Citations: make([]model.CitationVerdict, 0, len(cites)),
		Reasons:   []string{},
		Meta:      model.NewMeta(inputSource),
	}

	rejected := 0
	for _, c := range cites {
		v := model.CitationVerdict{
			CitationID:    c.CitationID,
			CCS:           Score(c),
			FailureStates: []string{},
		}
		if v.CitationID == "" {
			v.CitationID = "cite:unknown"
		}
		v.Status = Status(v.CCS)
		if v.Status == model.DecisionReject {
			rejected++
			v.FailureStates = append(v.FailureStates, fmt.Sprintf("CCS below threshold: %.2f < %.2f", v.CCS, RejectBelow))
		}
		ev.Citations = append(ev.Citations, v)
	}

	switch {
	case len(cites) == 0:
		ev.Decision = model.DecisionReject
		ev.Reasons = append(ev.Reasons, ReasonNoCitations)
	case rejected == len(cites):
		ev.Decision = model.DecisionReject
		ev.Reasons = append(ev.Reasons, ReasonAllRejected)
	case rejected > 0:
		ev.Decision = model.DecisionDowngrade
		ev.Reasons = append(ev.Reasons, ReasonSomeRejected)
	default:
		ev.Decision = model.DecisionAccept
	}
	return ev
}
