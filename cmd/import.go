package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a legends export and summarize its categories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range store.Categories() {
			off, _ := store.Offset(c)
			_, _ = fmt.Fprintf(out, "%-30s %8d records  first id %d\n", c, store.Len(c), off)
		}

		metricsOut, _ := cmd.Flags().GetString("metrics-out")
		if metricsOut != "" {
			if err := env.metrics.WriteTextfile(metricsOut); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("metrics-out", "", "Write import metrics in Prometheus text format to this file")
	rootCmd.AddCommand(importCmd)
}
