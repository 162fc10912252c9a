package model

// Rejection sentinels carried by a failed AFB.
const (
	RejectedAnswer      = "REJECTED"
	RejectedQuickAnswer = "REJECTED: Entity confidence below threshold"
)

// ContextFit says where an answer may and may not be reused.
type ContextFit struct {
	UseWhen      []string `json:"use_when"`
	DoNotUseWhen []string `json:"do_not_use_when"`
}

// ConfidenceSignals are the trust inputs carried alongside an answer.
type ConfidenceSignals struct {
	EntityConfidence float64 `json:"entity_confidence"`
	CitationCount    int     `json:"citation_count"`
}

// AnswerPayload is the machine-consumable answer object.
type AnswerPayload struct {
	Type     string `json:"@type"`
	Answer   string `json:"answer"`
	EntityID string `json:"entity_id"`
}

// AFB is an Answer-First Block. A rejected AFB is still well-formed: its
// answer fields hold the rejection sentinels and Reasons is populated.
type AFB struct {
	AFBID             string            `json:"afb_id"`
	EntityID          string            `json:"entity_id"`
	AIQuickAnswer     string            `json:"ai_quick_answer"`
	Eligibility       Eligibility       `json:"eligibility"`
	Reasons           []string          `json:"reasons,omitempty"`
	ContextFit        *ContextFit       `json:"context_fit,omitempty"`
	ConfidenceSignals ConfidenceSignals `json:"confidence_signals"`
	Payload           AnswerPayload     `json:"payload"`
	Meta              Meta              `json:"meta"`
}

// Rejected reports whether the AFB is the rejection variant.
func (a AFB) Rejected() bool {
	return a.Eligibility != EligibilityPass
}

// CanonicalAnswer returns the answer text drift analysis compares against,
// or "" when the AFB was rejected.
func (a AFB) CanonicalAnswer() string {
	if a.Rejected() {
		return ""
	}
	return a.AIQuickAnswer
}
