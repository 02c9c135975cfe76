package cli

import (
	"fmt"
	"strings"

	"solution-cli/internal/logging"
	"solution-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.solution/config.yaml",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (file + SOLUTION_* environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":    path,
					"config":  app.cfg,
					"dir":     app.Dir,
					"backend": app.Backend,
				},
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (store.dir, store.format, log.level, log.format, tui.glyphs)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			key, value := strings.ToLower(strings.TrimSpace(args[0])), strings.TrimSpace(args[1])
			if err := setConfigValue(cfg, key, value); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": key, "value": value}})
		},
	}

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func setConfigValue(cfg *store.Config, key, value string) error {
	switch key {
	case "store.dir":
		cfg.Store.Dir = value
	case "store.format":
		if _, err := store.ParseFormat(value); err != nil {
			return err
		}
		cfg.Store.Format = value
	case "log.level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		cfg.Log.Level = value
	case "log.format":
		if value != "json" && value != "console" {
			return fmt.Errorf("invalid log.format %q (expected json|console)", value)
		}
		cfg.Log.Format = value
	case "tui.glyphs":
		if value != "unicode" && value != "ascii" {
			return fmt.Errorf("invalid tui.glyphs %q (expected unicode|ascii)", value)
		}
		cfg.TUI.Glyphs = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
