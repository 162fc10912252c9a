package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/answer-trust/internal/crawl"
	"github.com/sells-group/answer-trust/internal/pipeline"
)

var (
	scanOutput     string
	scanMaxPages   int
	scanUseBrowser bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Crawl a site and write site.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanMaxPages > 0 {
			cfg.Crawl.MaxPages = scanMaxPages
		}
		if cmd.Flags().Changed("browser") {
			cfg.Crawl.UseBrowser = scanUseBrowser
		}

		renderer, err := pipeline.NewRenderer(cfg)
		if err != nil {
			return err
		}
		if renderer != nil {
			defer renderer.Close() //nolint:errcheck
		}

		opts := pipeline.CrawlOptions(cfg)
		opts.Progress = printProgress
		res, err := crawl.New(opts, renderer).Crawl(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "scan")
		}

		path, err := writeArtifact(scanOutput, pipeline.FileSite, res)
		if err != nil {
			return err
		}
		if res.HomeHTML != "" {
			if err := pipeline.WriteText(filepath.Join(scanOutput, pipeline.FileHomeHTML), res.HomeHTML); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d pages fetched (%s) -> %s\n",
			res.Site, len(res.FetchedPages()), len(res.Pages), res.ParserUsed, path)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "output", "output directory")
	scanCmd.Flags().IntVar(&scanMaxPages, "max-pages", 0, "maximum pages to scan (default from config)")
	scanCmd.Flags().BoolVar(&scanUseBrowser, "browser", false, "require headless rendering (default from config)")
	rootCmd.AddCommand(scanCmd)
}
