package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/answer-trust/internal/model"
)

func eval(ids ...string) model.CitationEvaluation {
	ev := model.CitationEvaluation{}
	for _, id := range ids {
		ev.Citations = append(ev.Citations, model.CitationVerdict{CitationID: id})
	}
	return ev
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   model.CitationEvaluation
		want model.GraphMetrics
	}{
		{"none", eval(), model.GraphMetrics{DistinctSources: 0, IsIsolated: true}},
		{"one", eval("cite:1"), model.GraphMetrics{DistinctSources: 1, SingleSourceRisk: true}},
		{"duplicate id", eval("cite:1", "cite:1"), model.GraphMetrics{DistinctSources: 1, SingleSourceRisk: true}},
		{"two", eval("cite:1", "cite:2"), model.GraphMetrics{DistinctSources: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewBuilder().Build("ent:https://acme.com", tt.ev, "bundle")
			assert.Equal(t, "ent:https://acme.com", g.Entity)
			assert.Equal(t, tt.want, g.Metrics)
			assert.Equal(t, "bundle", g.Meta.InputSource)
		})
	}
}

func TestBuild_UnknownEntity(t *testing.T) {
	t.Parallel()

	g := NewBuilder().Build("", eval(), "")
	assert.Equal(t, "ent:unknown", g.Entity)
}
