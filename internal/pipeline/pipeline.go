// Package pipeline runs the trust stages in order for one site: crawl,
// signals, entity score, answer block, citation evaluation, source graph and
// the supplemental report.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/answer-trust/internal/answer"
	"github.com/sells-group/answer-trust/internal/citation"
	"github.com/sells-group/answer-trust/internal/drift"
	"github.com/sells-group/answer-trust/internal/entity"
	"github.com/sells-group/answer-trust/internal/graph"
	"github.com/sells-group/answer-trust/internal/metrics"
	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/report"
	"github.com/sells-group/answer-trust/internal/signals"
	"github.com/sells-group/answer-trust/internal/site"
	"github.com/sells-group/answer-trust/internal/store"
)

// Stage names, used for logging, metrics and the bundle's stage log.
const (
	StageCrawl    = "crawl"
	StageSignals  = "signals"
	StageEntity   = "entity"
	StageAnswer   = "answer"
	StageCitation = "citation"
	StageGraph    = "graph"
	StageReport   = "report"
	StageDrift    = "drift"
)

// Crawler is the crawl capability the pipeline drives. *crawl.Crawler
// satisfies it.
type Crawler interface {
	Crawl(ctx context.Context, baseURL string) (*model.CrawlResult, error)
}

// Options configures a Pipeline.
type Options struct {
	// CacheTTL enables the crawl cache when positive and a store is set.
	CacheTTL        time.Duration
	AnswerMaxLength int
}

// Pipeline runs the forward stages. It holds no per-run state and may be
// shared across goroutines if its Crawler may.
type Pipeline struct {
	crawler   Crawler
	store     store.Store
	opts      Options
	scorer    entity.Scorer
	answers   answer.Builder
	citations citation.Evaluator
	graphs    graph.Builder
	drifts    drift.Analyzer
}

// New creates a Pipeline. st may be nil, which disables caching and stored
// captures.
func New(crawler Crawler, st store.Store, opts Options) *Pipeline {
	return &Pipeline{
		crawler:   crawler,
		store:     st,
		opts:      opts,
		scorer:    entity.NewScorer(),
		answers:   answer.NewBuilder(opts.AnswerMaxLength),
		citations: citation.NewEvaluator(),
		graphs:    graph.NewBuilder(),
		drifts:    drift.NewAnalyzer(),
	}
}

// Request is one pipeline run.
type Request struct {
	URL string `json:"url"`
	// Citations attached to the AFB by the caller. None means the citation
	// stage rejects with no_citations_found.
	Citations []model.Citation `json:"citations,omitempty"`
	// Refresh skips the crawl cache lookup. The fresh result is still cached.
	Refresh bool `json:"refresh,omitempty"`
}

// StageResult records how one stage finished.
type StageResult struct {
	Name       string `json:"name"`
	Outcome    string `json:"outcome"`
	DurationMs int64  `json:"duration_ms"`
}

// Bundle is every artifact of one run.
type Bundle struct {
	RunID     string                   `json:"run_id"`
	FromCache bool                     `json:"from_cache"`
	Stages    []StageResult            `json:"stages"`
	Site      model.CrawlResult        `json:"site"`
	Signals   model.SiteSignals        `json:"signals"`
	Entity    model.EntityProfile      `json:"entity_profile"`
	AFB       model.AFB                `json:"afb"`
	Citations model.CitationEvaluation `json:"citation_eval"`
	Graph     model.EntityGraph        `json:"entity_graph"`
	Report    report.Report            `json:"report"`
}

// Run executes every stage for req.URL. Threshold rejections are carried in
// the artifacts; only a crawl failure is returned as an error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Bundle, error) {
	if req.URL == "" {
		return nil, eris.New("pipeline: url is required")
	}

	b := &Bundle{RunID: uuid.New().String(), Stages: []StageResult{}}
	log := zap.L().With(zap.String("run_id", b.RunID), zap.String("url", req.URL))
	log.Info("pipeline: starting run")

	trackStage := func(name string, fn func() (string, error)) error {
		start := time.Now()
		outcome, err := fn()
		if err != nil {
			outcome = "error"
		}
		sr := StageResult{Name: name, Outcome: outcome, DurationMs: time.Since(start).Milliseconds()}
		b.Stages = append(b.Stages, sr)
		metrics.Stage(name, outcome)

		if err != nil {
			log.Error("pipeline: stage failed", zap.String("stage", name), zap.Int64("duration_ms", sr.DurationMs), zap.Error(err))
			return err
		}
		log.Debug("pipeline: stage complete", zap.String("stage", name), zap.String("outcome", outcome), zap.Int64("duration_ms", sr.DurationMs))
		return nil
	}
	pure := func(name string, fn func() string) {
		_ = trackStage(name, func() (string, error) { return fn(), nil })
	}

	err := trackStage(StageCrawl, func() (string, error) {
		res, fromCache, err := p.crawl(ctx, req)
		if err != nil {
			return "", err
		}
		b.Site, b.FromCache = *res, fromCache
		if fromCache {
			return "cached", nil
		}
		return "fetched", nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: crawl")
	}

	pure(StageSignals, func() string {
		b.Signals = signals.Extract(b.Site)
		return "ok"
	})

	pure(StageEntity, func() string {
		b.Entity = p.scorer.Score(b.Signals, FileSite)
		metrics.EntityConfidence.Observe(b.Entity.EntityConfidence)
		return string(b.Entity.Eligibility)
	})

	pure(StageAnswer, func() string {
		b.AFB = p.answers.Build(b.Site.HomeHTML, b.Entity, FileEntity)
		return string(b.AFB.Eligibility)
	})

	pure(StageCitation, func() string {
		b.Citations = p.citations.Evaluate(b.AFB.AFBID, req.Citations, FileAFB)
		return string(b.Citations.Decision)
	})

	pure(StageGraph, func() string {
		b.Graph = p.graphs.Build(b.Entity.EntityID, b.Citations, FileCitations)
		switch {
		case b.Graph.Metrics.IsIsolated:
			return "isolated"
		case b.Graph.Metrics.SingleSourceRisk:
			return "single_source"
		}
		return "diverse"
	})

	pure(StageReport, func() string {
		b.Report = report.Generate(b.Signals, RepresentativeSchemas(b.Site), FileSignals)
		return b.Report.ScoreGrade
	})

	log.Info("pipeline: run complete",
		zap.Bool("from_cache", b.FromCache),
		zap.Int("pages", len(b.Site.Pages)),
		zap.Float64("entity_confidence", b.Entity.EntityConfidence),
		zap.String("eligibility", string(b.Entity.Eligibility)),
		zap.String("citation_decision", string(b.Citations.Decision)),
		zap.Int("report_score", b.Report.Score),
	)
	return b, nil
}

// crawl returns a cached crawl when one is fresh, otherwise crawls and
// caches the result. Cache failures are logged and never fail the run.
func (p *Pipeline) crawl(ctx context.Context, req Request) (*model.CrawlResult, bool, error) {
	key := site.Normalize(req.URL)
	useCache := p.store != nil && p.opts.CacheTTL > 0 && !site.IsFile(key)

	if useCache && !req.Refresh {
		cached, err := p.store.GetCachedCrawl(ctx, key)
		if err != nil {
			zap.L().Warn("pipeline: crawl cache lookup failed", zap.String("site", key), zap.Error(err))
		}
		if cached != nil {
			zap.L().Info("pipeline: using cached crawl",
				zap.String("site", key),
				zap.Int("pages", len(cached.Result.Pages)),
				zap.Time("crawled_at", cached.CrawledAt),
			)
			return &cached.Result, true, nil
		}
	}

	res, err := p.crawler.Crawl(ctx, req.URL)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		if err := p.store.SetCachedCrawl(ctx, key, *res, p.opts.CacheTTL); err != nil {
			zap.L().Warn("pipeline: crawl cache write failed", zap.String("site", key), zap.Error(err))
		}
	}
	return res, false, nil
}

// RepresentativeSchemas returns the schema objects of the first fetched page.
func RepresentativeSchemas(res model.CrawlResult) []map[string]any {
	for _, p := range res.Pages {
		if p.Fetched {
			return p.Schemas
		}
	}
	return nil
}
