package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/answer-trust/internal/citation"
	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/pipeline"
	"github.com/sells-group/answer-trust/internal/store"
)

var (
	runOutput    string
	runCitations string
	runMaxPages  int
	runRefresh   bool
	runNoCache   bool
)

var runCmd = &cobra.Command{
	Use:   "run <url>",
	Short: "Run every stage for one site and write the artifact bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var citations []model.Citation
		if runCitations != "" {
			c, err := citation.LoadFile(runCitations)
			if err != nil {
				return err
			}
			citations = c
		}
		if runMaxPages > 0 {
			cfg.Crawl.MaxPages = runMaxPages
		}

		var st store.Store
		if !runNoCache {
			s, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			st = s
		}

		p, closeFn, err := pipeline.Build(cfg, st, printProgress)
		if err != nil {
			return err
		}
		defer closeFn()

		start := time.Now()
		b, err := p.Run(ctx, pipeline.Request{URL: args[0], Citations: citations, Refresh: runRefresh})
		if err != nil {
			return err
		}
		if err := pipeline.WriteBundle(runOutput, b); err != nil {
			return eris.Wrap(err, "write bundle")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "site:              %s\n", b.Site.Site)
		fmt.Fprintf(out, "pages fetched:     %d/%d\n", len(b.Site.FetchedPages()), len(b.Site.Pages))
		fmt.Fprintf(out, "entity confidence: %.2f (%s)\n", b.Entity.EntityConfidence, b.Entity.Eligibility)
		fmt.Fprintf(out, "afb:               %s (%s)\n", b.AFB.AFBID, b.AFB.Eligibility)
		fmt.Fprintf(out, "citations:         %s\n", b.Citations.Decision)
		fmt.Fprintf(out, "distinct sources:  %d\n", b.Graph.Metrics.DistinctSources)
		fmt.Fprintf(out, "report:            %d (%s)\n", b.Report.Score, b.Report.ScoreGrade)
		fmt.Fprintf(out, "bundle:            %s (%s)\n", runOutput, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "output", "bundle output directory")
	runCmd.Flags().StringVar(&runCitations, "citations", "", "citations file (JSON or YAML) attached to the AFB")
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "maximum pages to scan (default from config)")
	runCmd.Flags().BoolVar(&runRefresh, "refresh", false, "ignore a cached crawl")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "run without the store")
	rootCmd.AddCommand(runCmd)
}
