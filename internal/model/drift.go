package model

import "time"

// HallucinationRisk buckets how far a captured output diverges from the canonical answer.
type HallucinationRisk string

const (
	RiskLow    HallucinationRisk = "low"
	RiskMedium HallucinationRisk = "medium"
	RiskHigh   HallucinationRisk = "high"
)

// Capture is an AI output recorded for later comparison against an AFB.
type Capture struct {
	CaptureID  string    `json:"capture_id" yaml:"capture_id"`
	AFBID      string    `json:"afb_id" yaml:"afb_id"`
	AIOutput   string    `json:"ai_output" yaml:"ai_output"`
	Source     string    `json:"source" yaml:"source"`
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`
	Meta       Meta      `json:"meta" yaml:"meta"`
}

// Comparison is one capture scored against the canonical answer.
type Comparison struct {
	CaptureID         string            `json:"capture_id"`
	Source            string            `json:"source"`
	AIOutput          string            `json:"ai_output"`
	SimilarityScore   float64           `json:"similarity_score"`
	Differences       []string          `json:"differences"`
	HallucinationRisk HallucinationRisk `json:"hallucination_risk"`
}

// DriftSummary aggregates a drift run.
type DriftSummary struct {
	TotalCaptures int     `json:"total_captures"`
	AvgSimilarity float64 `json:"avg_similarity"`
	BestSource    *string `json:"best_source"`
	WorstSource   *string `json:"worst_source"`
}

// Drift report statuses.
const (
	DriftCompared = "compared"
	DriftSkipped  = "skipped"
)

// DriftReport is the Drift Analyzer's output for one AFB.
type DriftReport struct {
	DiffID      string       `json:"diff_id"`
	AFBID       string       `json:"afb_id"`
	AFBAnswer   string       `json:"afb_answer"`
	Status      string       `json:"status"`
	Reasons     []string     `json:"reasons,omitempty"`
	Comparisons []Comparison `json:"comparisons"`
	Summary     DriftSummary `json:"summary"`
	Meta        Meta         `json:"meta"`
}
