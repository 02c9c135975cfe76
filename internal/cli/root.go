package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"solution-cli/internal/format"
	"solution-cli/internal/logging"
	"solution-cli/internal/solution"
	"solution-cli/internal/store"
	"solution-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	Backend    string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg   *store.Config
	log   *zap.Logger
	store store.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "solution",
		Short:        "Solution trees of projects and tasks (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  solution

  # Create a starter solution and look at it
  solution init --seed
  solution tree "New Project"

  # Add and check off work
  solution add Demo / Backend --type project
  solution add Demo Backend "Write tests" --type toptask
  solution check Demo "Backend/Write tests"

  # Direct item lookup (shortcut for: solution show Demo /Demo/Backend)
  solution /Demo/Backend
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Store directory (default: store.dir, else the nearest .solutions directory)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (sqlite|xml|yaml|json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SOLUTION_FORMAT", "json"), "Output format (json|yaml|tree)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level for stderr (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newRootRenameCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves flags against config.yaml and SOLUTION_* environment variables.
// Flags win.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	logCfg := cfg.Log
	if app.LogLevel != "" {
		logCfg.Level = app.LogLevel
	}
	log, err := logging.NewWriter(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log

	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		dir = strings.TrimSpace(cfg.Store.Dir)
	}
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		dir = d
	}
	app.Dir = dir

	backend := app.Backend
	if backend == "" {
		backend = cfg.Store.Format
	}
	f, err := store.ParseFormat(backend)
	if err != nil {
		return writeErr(cmd, err)
	}
	b, err := store.BackendFor(f)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Backend = string(f)
	app.store = store.Store{Dir: dir, Backend: b, Log: log}
	log.Debug("cli.setup", zap.String("dir", dir), zap.String("backend", app.Backend))
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	glyphs := ""
	if app.cfg != nil {
		glyphs = app.cfg.TUI.Glyphs
	}
	return tui.Run(ctxOf(cmd), tui.Options{
		Store:  app.store,
		Glyphs: glyphs,
		Log:    app.log,
	})
}

// openSolution loads the named solution from the store.
func openSolution(cmd *cobra.Command, app *App, name string) (*solution.Tree, error) {
	return app.store.Open(ctxOf(cmd), name)
}

func saveSolution(cmd *cobra.Command, app *App, t *solution.Tree) error {
	return app.store.Save(ctxOf(cmd), t)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
