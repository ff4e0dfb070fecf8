package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [file] [jsonpath]",
	Short: "Evaluate a JSONPath expression over the world",
	Long: `Evaluate a JSONPath expression against the world viewed as one object
keyed by category, for example:

  legends query world.xml "$.historical_figures[?(@.race == 'dwarf')].name"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}
		results, err := store.Query(args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), oj.JSON(results, jsonOpts))
		return err
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
