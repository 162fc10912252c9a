// Package graph derives source-diversity risk metrics from a citation
// evaluation.
package graph

import "github.com/sells-group/answer-trust/internal/model"

// Builder computes Entity Graphs. It holds no state and is safe to share.
type Builder struct{}

// NewBuilder returns a Builder.
func NewBuilder() Builder { return Builder{} }

// Build counts distinct citation identifiers in ev. URLs are not compared:
// two identifiers pointing at the same URL are two sources.
func (Builder) Build(entityID string, ev model.CitationEvaluation, inputSource string) model.EntityGraph {
	if entityID == "" {
		entityID = "ent:unknown"
	}
	seen := make(map[string]struct{}, len(ev.Citations))
	for _, c := range ev.Citations {
		seen[c.CitationID] = struct{}{}
	}
	n := len(seen)
	return model.EntityGraph{
		Entity: entityID,
		Metrics: model.GraphMetrics{
			DistinctSources:  n,
			IsIsolated:       n == 0,
			SingleSourceRisk: n == 1,
		},
		Meta: model.NewMeta(inputSource),
	}
}
