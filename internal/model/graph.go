package model

// GraphMetrics are the source-diversity risk metrics for an entity.
type GraphMetrics struct {
	DistinctSources  int  `json:"distinct_sources"`
	IsIsolated       bool `json:"is_isolated"`
	SingleSourceRisk bool `json:"single_source_risk"`
}

// EntityGraph is the Graph Builder's output.
type EntityGraph struct {
	Entity  string       `json:"entity"`
	Metrics GraphMetrics `json:"metrics"`
	Meta    Meta         `json:"meta"`
}
