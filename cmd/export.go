package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/legends/internal/ingest"
)

var exportCmd = &cobra.Command{
	Use:   "export [file] [output.db]",
	Short: "Export the imported world to a SQLite database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}

		writer, err := ingest.NewSQLiteWriter(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = writer.Close() }()

		start := time.Now()
		if err := writer.Write(store); err != nil {
			return err
		}
		records := 0
		for _, c := range store.Categories() {
			records += store.Len(c)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s in %v.\n",
			records, args[1], time.Since(start).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
