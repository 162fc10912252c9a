package model

// DimensionScores is the per-dimension breakdown behind an entity confidence score.
type DimensionScores struct {
	Consistency float64 `json:"consistency"`
	Authority   float64 `json:"authority"`
	Citation    float64 `json:"citation"`
	Frequency   float64 `json:"frequency"`
	Social      float64 `json:"social"`
}

// EntityProfile is the Entity Scorer's verdict on one site.
type EntityProfile struct {
	EntityID         string          `json:"entity_id"`
	EntityConfidence float64         `json:"entity_confidence"`
	Signals          DimensionScores `json:"signals"`
	Eligibility      Eligibility     `json:"eligibility"`
	Meta             Meta            `json:"meta"`
}

// Eligible reports whether the profile passed the confidence gate.
func (p EntityProfile) Eligible() bool {
	return p.Eligibility == EligibilityPass
}
