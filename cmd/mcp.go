package cmd

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/legends/internal/graph"
	"github.com/agentic-research/legends/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [file]",
	Short: "Serve lookup and page tools over MCP on stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout. If a file is
given it is loaded before serving; otherwise clients call load_world first.
Paths passed to load_world are resolved under --root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		theme, err := env.theme()
		if err != nil {
			return err
		}

		world := graph.NewHotSwap(nil)
		if len(args) == 1 {
			store, err := env.load(args[0])
			if err != nil {
				return err
			}
			world.Swap(store)
		}

		srv := mcpserver.New(world, env.engine(), osfs.New(absRoot), theme, env.log, version)
		env.log.Info().Str("root", absRoot).Bool("loaded", world.Loaded()).Msg("serving MCP on stdio")
		return srv.ServeStdio()
	},
}

func init() {
	mcpCmd.Flags().String("root", ".", "Directory load_world paths are resolved in")
	rootCmd.AddCommand(mcpCmd)
}
