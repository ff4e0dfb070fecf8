package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/graph"
	"github.com/agentic-research/legends/internal/ingest"
	"github.com/agentic-research/legends/internal/logger"
	"github.com/agentic-research/legends/internal/metrics"
	"github.com/agentic-research/legends/internal/page"
)

// defaultConfigFile is read from the working directory when --config is not
// given. Its absence is not an error.
const defaultConfigFile = "legends.hcl"

var (
	version = "dev"

	configPath string
	verbose    bool
	lenientIDs bool
)

var rootCmd = &cobra.Command{
	Use:   "legends",
	Short: "Import and browse world history exports",
	Long: `legends reads the XML history export of a simulated world into an
indexed in-memory store and renders linked pages about its figures, sites,
entities and events.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to HCL config (default ./legends.hcl if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&lenientIDs, "lenient-ids", false, "Keep categories whose identifiers are not contiguous")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// env is the per-invocation state shared by commands: configuration after
// flag overrides, the logger and the import metrics.
type env struct {
	cfg     *api.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func newEnv(cmd *cobra.Command) (*env, error) {
	var (
		cfg *api.Config
		err error
	)
	if configPath != "" {
		cfg, err = api.LoadConfig(configPath)
	} else {
		cfg, err = api.LoadConfigOrDefault(defaultConfigFile)
	}
	if err != nil {
		return nil, err
	}
	if lenientIDs {
		cfg.Import.LenientIDs = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	return &env{cfg: cfg, log: log, metrics: metrics.New()}, nil
}

func (e *env) engine() *ingest.Engine {
	return ingest.NewEngine(e.cfg, e.log, e.metrics)
}

// load imports the document at path. A sanitized copy, if needed, is
// written next to it.
func (e *env) load(path string) (*graph.Store, error) {
	fsys, name, err := hostFS(path)
	if err != nil {
		return nil, err
	}
	return e.engine().IngestFile(fsys, name)
}

// theme reads the configured stylesheet once for the whole invocation.
func (e *env) theme() (page.Theme, error) {
	rc := *e.cfg.Render
	if rc.Stylesheet == "" {
		return page.LoadTheme(nil, &rc)
	}
	fsys, name, err := hostFS(rc.Stylesheet)
	if err != nil {
		return page.Theme{}, err
	}
	rc.Stylesheet = name
	return page.LoadTheme(fsys, &rc)
}

// hostFS returns a filesystem rooted at the directory holding path, and the
// base name of path within it.
func hostFS(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}
