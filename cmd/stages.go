package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/answer-trust/internal/answer"
	"github.com/sells-group/answer-trust/internal/citation"
	"github.com/sells-group/answer-trust/internal/entity"
	"github.com/sells-group/answer-trust/internal/graph"
	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/pipeline"
	"github.com/sells-group/answer-trust/internal/report"
	"github.com/sells-group/answer-trust/internal/signals"
)

var stageOutput string

var entityCmd = &cobra.Command{
	Use:   "entity <site.json>",
	Short: "Score entity confidence from a crawl and write entity_profile.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var res model.CrawlResult
		if err := pipeline.ReadJSON(args[0], &res); err != nil {
			return err
		}

		sig := signals.Extract(res)
		if _, err := writeArtifact(stageOutput, pipeline.FileSignals, sig); err != nil {
			return err
		}
		profile := entity.NewScorer().Score(sig, filepath.Base(args[0]))
		if _, err := writeArtifact(stageOutput, pipeline.FileEntity, profile); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: entity confidence %.2f (%s)\n", profile.EntityID, profile.EntityConfidence, profile.Eligibility)
		return nil
	},
}

var afbEntityPath string

var afbCmd = &cobra.Command{
	Use:   "afb <page.html>",
	Short: "Build the answer-first block for a page and write afb.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}
		var profile model.EntityProfile
		if err := pipeline.ReadJSON(afbEntityPath, &profile); err != nil {
			return err
		}

		afb := answer.NewBuilder(cfg.Answer.MaxLength).Build(string(page), profile, filepath.Base(afbEntityPath))
		if _, err := writeArtifact(stageOutput, pipeline.FileAFB, afb); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", afb.AFBID, afb.Eligibility)
		return nil
	},
}

var citationFile string

var citationCmd = &cobra.Command{
	Use:   "citation <afb.json>",
	Short: "Evaluate the citations attached to an AFB and write citation_eval.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var afb model.AFB
		if err := pipeline.ReadJSON(args[0], &afb); err != nil {
			return err
		}
		cites := []model.Citation{}
		if citationFile != "" {
			c, err := citation.LoadFile(citationFile)
			if err != nil {
				return err
			}
			cites = c
		}

		eval := citation.NewEvaluator().Evaluate(afb.AFBID, cites, filepath.Base(args[0]))
		if _, err := writeArtifact(stageOutput, pipeline.FileCitations, eval); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d citations)\n", eval.AFBID, eval.Decision, len(eval.Citations))
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <bundle_dir>",
	Short: "Build the entity source graph from a bundle and write entity_graph.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var profile model.EntityProfile
		if err := pipeline.ReadJSON(filepath.Join(args[0], pipeline.FileEntity), &profile); err != nil {
			return err
		}
		var eval model.CitationEvaluation
		if err := pipeline.ReadJSON(filepath.Join(args[0], pipeline.FileCitations), &eval); err != nil {
			return err
		}

		g := graph.NewBuilder().Build(profile.EntityID, eval, pipeline.FileCitations)
		if _, err := writeArtifact(stageOutput, pipeline.FileGraph, g); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d distinct sources (isolated=%t, single_source_risk=%t)\n",
			g.Entity, g.Metrics.DistinctSources, g.Metrics.IsIsolated, g.Metrics.SingleSourceRisk)
		return nil
	},
}

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report <bundle_dir>",
	Short: "Generate the site report from a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch reportFormat {
		case "md", "json", "both":
		default:
			return eris.Errorf("--format must be md, json or both, got %q", reportFormat)
		}

		var sig model.SiteSignals
		if err := pipeline.ReadJSON(filepath.Join(args[0], pipeline.FileSignals), &sig); err != nil {
			return err
		}
		// site.json only contributes schema objects; a bundle without it still reports.
		var res model.CrawlResult
		if err := pipeline.ReadJSON(filepath.Join(args[0], pipeline.FileSite), &res); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		r := report.Generate(sig, pipeline.RepresentativeSchemas(res), pipeline.FileSignals)
		if reportFormat != "md" {
			if _, err := writeArtifact(stageOutput, pipeline.FileReport, r); err != nil {
				return err
			}
		}
		if reportFormat != "json" {
			if err := os.MkdirAll(stageOutput, 0o755); err != nil {
				return eris.Wrapf(err, "create %s", stageOutput)
			}
			if err := pipeline.WriteText(filepath.Join(stageOutput, pipeline.FileReportMD), report.Markdown(r)); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/100 (%s), %d issues\n", r.Site, r.Score, r.ScoreGrade, r.Summary.TotalIssues)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{entityCmd, afbCmd, citationCmd, graphCmd, reportCmd} {
		c.Flags().StringVarP(&stageOutput, "output", "o", "output", "output directory")
		rootCmd.AddCommand(c)
	}
	afbCmd.Flags().StringVar(&afbEntityPath, "entity", "", "entity_profile.json (required)")
	_ = afbCmd.MarkFlagRequired("entity")
	citationCmd.Flags().StringVar(&citationFile, "citations", "", "citations file (JSON or YAML); none means no citations")
	reportCmd.Flags().StringVar(&reportFormat, "format", "both", "md, json or both")
}
