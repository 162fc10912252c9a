package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/answer-trust/internal/drift"
	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/pipeline"
	"github.com/sells-group/answer-trust/internal/store"
)

var (
	driftOutput   string
	driftCaptures string
)

var driftCmd = &cobra.Command{
	Use:   "drift <afb.json>",
	Short: "Compare captured AI outputs against an AFB and write drift_report.json",
	Long:  "Compares captures from --captures (JSON or YAML) against the AFB's canonical answer. Without --captures, the captures stored for the AFB are used.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var afb model.AFB
		if err := pipeline.ReadJSON(args[0], &afb); err != nil {
			return err
		}

		var (
			captures []model.Capture
			st       store.Store
			source   = "store"
		)
		if driftCaptures != "" {
			c, err := drift.LoadCapturesFile(driftCaptures)
			if err != nil {
				return err
			}
			captures = c
			source = filepath.Base(driftCaptures)
		} else {
			s, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			st = s
		}

		rep, err := pipeline.New(nil, st, pipeline.Options{}).Drift(ctx, afb, captures, source)
		if err != nil {
			return err
		}
		path, err := writeArtifact(driftOutput, pipeline.FileDrift, rep)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if rep.Status == model.DriftSkipped {
			fmt.Fprintf(out, "%s: skipped (%v) -> %s\n", rep.AFBID, rep.Reasons, path)
			return nil
		}
		for _, c := range rep.Comparisons {
			fmt.Fprintf(out, "%-10s %-32s %.2f %-6s %s\n", c.CaptureID, c.Source, c.SimilarityScore, c.HallucinationRisk, strings.Join(c.Differences, "; "))
		}
		fmt.Fprintf(out, "average similarity %.2f over %d captures -> %s\n", rep.Summary.AvgSimilarity, len(rep.Comparisons), path)
		return nil
	},
}

func init() {
	driftCmd.Flags().StringVarP(&driftOutput, "output", "o", "output", "output directory")
	driftCmd.Flags().StringVar(&driftCaptures, "captures", "", "captures file (JSON or YAML); default reads the store")
	rootCmd.AddCommand(driftCmd)
}
