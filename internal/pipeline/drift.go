package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/answer-trust/internal/metrics"
	"github.com/sells-group/answer-trust/internal/model"
)

// Drift compares captures against afb's canonical answer. When captures is
// nil and a store is configured, the stored captures for the AFB are used.
func (p *Pipeline) Drift(ctx context.Context, afb model.AFB, captures []model.Capture, inputSource string) (model.DriftReport, error) {
	if captures == nil && p.store != nil && afb.AFBID != "" {
		stored, err := p.store.ListCaptures(ctx, afb.AFBID)
		if err != nil {
			metrics.Stage(StageDrift, "error")
			return model.DriftReport{}, eris.Wrap(err, "pipeline: load captures")
		}
		captures = stored
	}

	rep := p.drifts.Analyze(afb, captures, inputSource)
	for _, c := range rep.Comparisons {
		metrics.DriftSimilarity.WithLabelValues(c.Source).Observe(c.SimilarityScore)
	}
	metrics.Stage(StageDrift, rep.Status)

	zap.L().Info("pipeline: drift analyzed",
		zap.String("afb_id", afb.AFBID),
		zap.String("status", rep.Status),
		zap.Int("captures", len(rep.Comparisons)),
	)
	return rep, nil
}
