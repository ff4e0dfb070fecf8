package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/legends/internal/page"
)

var findCmd = &cobra.Command{
	Use:   "find [file] [name...]",
	Short: "Find a record by name",
	Long: `Find a record whose name matches exactly, ignoring case. Prints the
category, identifier and page address of the first match, or "not found".`,
	Args: cobra.MinimumNArgs(2),
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
		ref, ok := store.FindByName(strings.Join(args[1:], " "))
		if !ok {
			_, err = fmt.Fprintln(out, ref)
			return err
		}
		addr, err := page.FormatAddress(ref.Category, ref.ID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s %d %s\n", ref.Category, ref.ID, addr)
		return err
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
