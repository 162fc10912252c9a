package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the crawl cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cached crawls",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.DeleteExpiredCrawls(ctx)
		if err != nil {
			return eris.Wrap(err, "prune crawl cache")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired crawls\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
