package model

import "time"

// Version is the tool version stamped into every artifact. Set at build time
// with -ldflags "-X github.com/sells-group/answer-trust/internal/model.Version=...".
var Version = "0.4.0"

// Now is the clock used for artifact timestamps. Tests replace it.
var Now = time.Now

// Meta is the provenance envelope attached to every artifact.
type Meta struct {
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	ToolVersion string `json:"tool_version" yaml:"tool_version"`
	InputSource string `json:"input_source" yaml:"input_source"`
}

// NewMeta builds a Meta envelope for an artifact derived from inputSource.
func NewMeta(inputSource string) Meta {
	return Meta{
		GeneratedAt: Now().UTC().Format(time.RFC3339),
		ToolVersion: Version,
		InputSource: inputSource,
	}
}

// Eligibility is the pass/fail gate state carried by Entity Profiles and AFBs.
type Eligibility string

const (
	EligibilityPass Eligibility = "pass"
	EligibilityFail Eligibility = "fail"
)

// EligibilityThreshold is the minimum entity confidence for a pass.
const EligibilityThreshold = 0.60

// EligibilityFor returns pass iff ec is at or above EligibilityThreshold.
func EligibilityFor(ec float64) Eligibility {
	if ec >= EligibilityThreshold {
		return EligibilityPass
	}
	return EligibilityFail
}
