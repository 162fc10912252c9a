package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-trust/internal/model"
)

func passAFB(answer string) model.AFB {
	return model.AFB{
		AFBID:         "afb:page:acme-com",
		EntityID:      "ent:https://acme.com",
		AIQuickAnswer: answer,
		Eligibility:   model.EligibilityPass,
	}
}

func TestAnalyze_Comparisons(t *testing.T) {
	t.Parallel()

	captures := []model.Capture{
		{CaptureID: "cap:001", Source: "chatgpt", AIOutput: canonical},
		{CaptureID: "cap:002", Source: "claude", AIOutput: "Acme Corp builds reusable orbital rocket."},
		{CaptureID: "cap:003", Source: "gemini", AIOutput: "ACME corp Builds reusable orbital rockets"},
		{CaptureID: "cap:004", Source: "perplexity", AIOutput: "zzzz qqqq"},
	}

	rep := NewAnalyzer().Analyze(passAFB(canonical), captures, "afb.json")

	assert.Equal(t, "diff:acme-com", rep.DiffID)
	assert.Equal(t, "afb:page:acme-com", rep.AFBID)
	assert.Equal(t, canonical, rep.AFBAnswer)
	assert.Equal(t, model.DriftCompared, rep.Status)
	assert.Empty(t, rep.Reasons)
	require.Len(t, rep.Comparisons, 4)

	exact := rep.Comparisons[0]
	assert.Equal(t, 1.0, exact.SimilarityScore)
	assert.Equal(t, model.RiskLow, exact.HallucinationRisk)
	assert.Empty(t, exact.Differences)

	assert.Equal(t, []string{DiffMinor}, rep.Comparisons[1].Differences)
	assert.Equal(t, model.RiskLow, rep.Comparisons[1].HallucinationRisk)

	assert.Equal(t, []string{DiffPartial}, rep.Comparisons[2].Differences)
	assert.NotEqual(t, model.RiskHigh, rep.Comparisons[2].HallucinationRisk)

	far := rep.Comparisons[3]
	assert.Equal(t, []string{DiffSignificant}, far.Differences)
	assert.Equal(t, model.RiskHigh, far.HallucinationRisk)

	assert.Equal(t, 4, rep.Summary.TotalCaptures)
	require.NotNil(t, rep.Summary.BestSource)
	require.NotNil(t, rep.Summary.WorstSource)
	assert.Equal(t, "chatgpt", *rep.Summary.BestSource)
	assert.Equal(t, "perplexity", *rep.Summary.WorstSource)
	assert.Greater(t, rep.Summary.AvgSimilarity, 0.0)
	assert.Less(t, rep.Summary.AvgSimilarity, 1.0)
}

func TestAnalyze_TiesKeepFirstSeen(t *testing.T) {
	t.Parallel()

	rep := NewAnalyzer().Analyze(passAFB(canonical), []model.Capture{
		{CaptureID: "cap:001", Source: "first", AIOutput: canonical},
		{CaptureID: "cap:002", Source: "second", AIOutput: canonical},
	}, "")

	assert.Equal(t, "first", *rep.Summary.BestSource)
	assert.Equal(t, "first", *rep.Summary.WorstSource)
	assert.Equal(t, 1.0, rep.Summary.AvgSimilarity)
}

func TestAnalyze_NoCaptures(t *testing.T) {
	t.Parallel()

	rep := NewAnalyzer().Analyze(passAFB(canonical), nil, "")

	assert.Equal(t, model.DriftCompared, rep.Status)
	assert.NotNil(t, rep.Comparisons)
	assert.Empty(t, rep.Comparisons)
	assert.Zero(t, rep.Summary.TotalCaptures)
	assert.Zero(t, rep.Summary.AvgSimilarity)
	assert.Nil(t, rep.Summary.BestSource)
	assert.Nil(t, rep.Summary.WorstSource)
}

func TestAnalyze_RejectedAFBSkips(t *testing.T) {
	t.Parallel()

	afb := model.AFB{
		AFBID:         "afb:page:acme-com",
		AIQuickAnswer: model.RejectedQuickAnswer,
		Eligibility:   model.EligibilityFail,
	}
	rep := NewAnalyzer().Analyze(afb, []model.Capture{{CaptureID: "cap:001", AIOutput: "anything"}}, "")

	assert.Equal(t, model.DriftSkipped, rep.Status)
	assert.Equal(t, []string{ReasonAFBRejected}, rep.Reasons)
	assert.Empty(t, rep.Comparisons)
	assert.Nil(t, rep.Summary.BestSource)
}

func TestAnalyze_EmptyAnswerSkips(t *testing.T) {
	t.Parallel()

	rep := NewAnalyzer().Analyze(passAFB("  "), []model.Capture{{AIOutput: "anything"}}, "")

	assert.Equal(t, model.DriftSkipped, rep.Status)
	assert.Equal(t, []string{ReasonEmptyAnswer}, rep.Reasons)
}

func TestAnalyze_DefaultsMissingFields(t *testing.T) {
	t.Parallel()

	rep := NewAnalyzer().Analyze(passAFB(canonical), []model.Capture{{AIOutput: canonical}}, "")

	require.Len(t, rep.Comparisons, 1)
	assert.Equal(t, "cap:unknown", rep.Comparisons[0].CaptureID)
	assert.Equal(t, "unknown", rep.Comparisons[0].Source)
}

func TestDiffID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "diff:acme-com", DiffID("afb:page:acme-com"))
	assert.Equal(t, "diff:plain", DiffID("plain"))
	assert.Equal(t, "diff:unknown", DiffID(""))
}
