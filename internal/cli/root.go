// Package cli wires the wikigen commands: the interactive editor, one-shot
// and watched renders, and field maintenance.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatianab/wikigen/internal/config"
	"github.com/tatianab/wikigen/internal/engine"
	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/tui"
)

// app holds the global flags and the configuration loaded from them.
type app struct {
	configPath string
	verbose    bool

	cfg *config.Config
}

// Execute runs the command line with os.Args.
func Execute() error {
	defer logger.Close()
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree. Running it without a subcommand
// opens the interactive editor.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wikigen",
		Short: "Generate location page markup for the wiki",
		Long: `wikigen turns the raw fields of a location (neighbours, encounters,
trainers, story battles, items, achievements...) into wiki page markup.

Run without arguments to start the interactive editor. Every edit is saved
right away and the page preview is rebuilt on each change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Close()
		},
		RunE: a.runEditor,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newRenderCmd(a),
		newWatchCmd(a),
		newSetCmd(a),
		newClearCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "DEBUG"
	}

	logCfg := cfg.Logging
	// The editor owns the terminal.
	if cmd.Parent() == nil {
		logCfg.ConsoleEnabled = false
		logCfg.FileEnabled = true
	}
	if err := logger.Initialize(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	logger.Debug("configuration loaded", "store", cfg.Store.Backend, "path", cfg.Store.Path, "lookup", cfg.Lookup.BaseURL)
	return nil
}

// newEngine returns an engine backed by the configured lookup service, or by
// no service at all when offline is set.
func (a *app) newEngine(offline bool) *engine.Engine {
	var client lookup.Client = lookup.Offline
	if !offline {
		client = a.cfg.NewLookupClient()
	}
	return engine.New(client, engine.WithConcurrency(a.cfg.Lookup.Concurrency))
}

func (a *app) runEditor(cmd *cobra.Command, args []string) error {
	store, err := a.cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	sink := engine.SinkFunc(func(string) error { return nil })
	p := engine.NewPipeline(a.newEngine(false), store, sink)
	logger.Info("editor started", "store", a.cfg.Store.Path)
	return tui.Run(p, store)
}
