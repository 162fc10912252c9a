package model

// VerificationVerified is the only verification status that earns the full base score.
const VerificationVerified = "verified"

// Citation is a source reference attached to an AFB by an external collaborator.
type Citation struct {
	CitationID         string `json:"citation_id" yaml:"citation_id"`
	URL                string `json:"url" yaml:"url"`
	VerificationStatus string `json:"verification_status" yaml:"verification_status"`
	AgeInDays          int    `json:"age_in_days" yaml:"age_in_days"`
}

// Decision is a per-citation status or an aggregate citation decision.
type Decision string

const (
	DecisionAccept    Decision = "accept"
	DecisionDowngrade Decision = "downgrade"
	DecisionReject    Decision = "reject"
)

// CitationVerdict is the evaluation of a single citation.
type CitationVerdict struct {
	CitationID    string   `json:"citation_id"`
	CCS           float64  `json:"ccs"`
	Status        Decision `json:"status"`
	FailureStates []string `json:"failure_states"`
}

// CitationEvaluation is the Citation Evaluator's output for one AFB.
type CitationEvaluation struct {
	AFBID     string            `json:"afb_id"`
	Citations []CitationVerdict `json:"citations"`
	Decision  Decision          `json:"decision"`
	Reasons   []string          `json:"reasons"`
	Meta      Meta              `json:"meta"`
}

// Rejected reports whether the aggregate decision is reject.
func (e CitationEvaluation) Rejected() bool {
	return e.Decision == DecisionReject
}
