package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/answer-trust/internal/model"
)

var schemaCmd = &cobra.Command{
	Use:       "schema [artifact]",
	Short:     "Print the JSON Schema of an artifact, or all of them",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: model.SchemaNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemas := model.Schemas()
		if len(args) == 0 {
			return printJSON(cmd.OutOrStdout(), schemas)
		}
		s, ok := schemas[args[0]]
		if !ok {
			return eris.Errorf("unknown artifact %q (have %v)", args[0], model.SchemaNames())
		}
		return printJSON(cmd.OutOrStdout(), s)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
