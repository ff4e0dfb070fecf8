package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentic-research/legends/internal/ingest"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [file]",
	Short: "Write a copy of a document with invalid characters replaced",
	Long: `Replace control characters and malformed UTF-8 with the configured
placeholder and write the result next to the original. Imports do this
automatically when a document fails to parse.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		fsys, name, err := hostFS(args[0])
		if err != nil {
			return err
		}
		clean, err := ingest.NewSanitizer(env.cfg.Sanitize, env.metrics).Sanitize(fsys, name)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(filepath.Dir(args[0]), clean))
		return err
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}
