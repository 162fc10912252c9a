package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/answer-trust/internal/drift"
	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/pipeline"
	anthropicpkg "github.com/sells-group/answer-trust/pkg/anthropic"
)

var (
	captureAFB    string
	captureText   string
	captureSource string
	captureAsk    bool
	captureModel  string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record an AI output for an AFB",
	Long:  "Stores a manual capture (--text) or asks an Anthropic model the entity question (--ask) and stores its answer.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if captureAsk == (captureText != "") {
			return eris.New("exactly one of --text or --ask is required")
		}
		var afb model.AFB
		if err := pipeline.ReadJSON(captureAFB, &afb); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var c *model.Capture
		if captureAsk {
			if cfg.Anthropic.Key == "" {
				return eris.New("anthropic key is required (TRUST_ANTHROPIC_KEY)")
			}
			mdl := captureModel
			if mdl == "" {
				mdl = cfg.Anthropic.Model
			}
			p := pipeline.New(nil, st, pipeline.Options{})
			c, err = p.Ask(ctx, anthropicpkg.NewClient(cfg.Anthropic.Key), afb, pipeline.AskOptions{
				Model:     mdl,
				MaxTokens: cfg.Anthropic.MaxTokens,
			})
		} else {
			c, err = st.AddCapture(ctx, model.Capture{
				AFBID:    afb.AFBID,
				AIOutput: captureText,
				Source:   captureSource,
			})
		}
		if err != nil {
			return eris.Wrap(err, "capture")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s): %s\n", c.AFBID, c.CaptureID, c.Source, c.AIOutput)
		return nil
	},
}

var captureImportCmd = &cobra.Command{
	Use:   "import <captures file>",
	Short: "Import captures from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		captures, err := drift.LoadCapturesFile(args[0])
		if err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportCaptures(ctx, captures)
		if err != nil {
			return eris.Wrap(err, "import captures")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d captures\n", n)
		return nil
	},
}

var captureListCmd = &cobra.Command{
	Use:   "list <afb_id>",
	Short: "List the captures stored for an AFB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		captures, err := st.ListCaptures(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "list captures")
		}
		out := cmd.OutOrStdout()
		for _, c := range captures {
			fmt.Fprintf(out, "%s  %s  %-28s %s\n", c.CaptureID, c.CapturedAt.Format(time.RFC3339), c.Source, c.AIOutput)
		}
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureAFB, "afb", "", "afb.json the capture belongs to (required)")
	captureCmd.Flags().StringVar(&captureText, "text", "", "captured AI output")
	captureCmd.Flags().StringVar(&captureSource, "source", "", "where the output came from (e.g. chatgpt, perplexity)")
	captureCmd.Flags().BoolVar(&captureAsk, "ask", false, "ask the configured Anthropic model instead of --text")
	captureCmd.Flags().StringVar(&captureModel, "model", "", "model for --ask (default from config)")
	_ = captureCmd.MarkFlagRequired("afb")

	captureCmd.AddCommand(captureImportCmd, captureListCmd)
	rootCmd.AddCommand(captureCmd)
}
