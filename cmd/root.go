package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/answer-trust/internal/config"
	"github.com/sells-group/answer-trust/internal/model"
)

var (
	cfg *config.Config

	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:     "answer-trust",
	Short:   "Website trust scoring for generative answers",
	Long:    "Crawls a website, scores how far its content can be trusted as an AI answer source, builds a citable answer block, evaluates its citations and tracks drift in captured AI outputs.",
	Version: model.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		switch {
		case verbose:
			c.Log.Level = "debug"
		case quiet:
			c.Log.Level = "error"
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
