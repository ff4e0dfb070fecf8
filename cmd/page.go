package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/legends/internal/page"
)

var pageCmd = &cobra.Command{
	Use:   "page [file] [address]",
	Short: "Render one page, e.g. hif0005764, as HTML",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		theme, err := env.theme()
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}
		html, err := page.NewRenderer(store, theme).Render(args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), html)
		return err
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [file] [dir]",
	Short: "Write every page of the world to a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, _ := cmd.Flags().GetStringSlice("category")

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		theme, err := env.theme()
		if err != nil {
			return err
		}
		store, err := env.load(args[0])
		if err != nil {
			return err
		}

		fsys, dir, err := hostFS(args[1])
		if err != nil {
			return err
		}
		n, err := page.NewRenderer(store, theme).WriteSite(fsys, dir, categories...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pages to %s\n", n, args[1])
		return err
	},
}

func init() {
	renderCmd.Flags().StringSlice("category", nil, "Only render these categories (repeatable)")
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(renderCmd)
}
