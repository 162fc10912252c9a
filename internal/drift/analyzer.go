package drift

import (
	"math"
	"strings"

	"github.com/sells-group/answer-trust/internal/model"
)

// Skip reasons.
const (
	ReasonAFBRejected = "AFB rejected: no canonical answer to compare"
	ReasonEmptyAnswer = "AFB has no answer text"
)

// Analyzer produces Drift Reports. It holds no state and is safe to share.
type Analyzer struct{}

// NewAnalyzer returns an Analyzer.
func NewAnalyzer() Analyzer { return Analyzer{} }

// DiffID derives the drift report identifier from an AFB identifier.
func DiffID(afbID string) string {
	if i := strings.LastIndex(afbID, ":"); i >= 0 {
		afbID = afbID[i+1:]
	}
	if afbID == "" {
		afbID = "unknown"
	}
	return "diff:" + afbID
}

// Analyze scores every capture against the AFB's canonical answer. A rejected
// or empty AFB yields a skipped report with no comparisons.
func (Analyzer) Analyze(afb model.AFB, captures []model.Capture, inputSource string) model.DriftReport {
	rep := model.DriftReport{
		DiffID:      DiffID(afb.AFBID),
		AFBID:       afb.AFBID,
		AFBAnswer:   afb.AIQuickAnswer,
		Status:      model.DriftCompared,
		Comparisons: make([]model.Comparison, 0, len(captures)),
		Meta:        model.NewMeta(inputSource),
	}

	answer := afb.CanonicalAnswer()
	switch {
	case afb.Rejected():
		rep.Status = model.DriftSkipped
		rep.Reasons = []string{ReasonAFBRejected}
		return rep
	case strings.TrimSpace(answer) == "":
		rep.Status = model.DriftSkipped
		rep.Reasons = []string{ReasonEmptyAnswer}
		return rep
	}

	var total float64
	best, worst := -1.0, 2.0
	for _, c := range captures {
		sim := Similarity(answer, c.AIOutput)
		source := c.Source
		if source == "" {
			source = "unknown"
		}
		id := c.CaptureID
		if id == "" {
			id = "cap:unknown"
		}
		rep.Comparisons = append(rep.Comparisons, model.Comparison{
			CaptureID:         id,
			Source:            source,
			AIOutput:          c.AIOutput,
			SimilarityScore:   round2(sim),
			Differences:       Differences(answer, c.AIOutput, sim),
			HallucinationRisk: Risk(sim),
		})
		total += sim
		if sim > best {
			best = sim
			rep.Summary.BestSource = &source
		}
		if sim < worst {
			worst = sim
			rep.Summary.WorstSource = &source
		}
	}

	rep.Summary.TotalCaptures = len(captures)
	if len(captures) > 0 {
		rep.Summary.AvgSimilarity = round2(total / float64(len(captures)))
	}
	return rep
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
