package cli

import (
	"errors"
	"fmt"
	"strings"

	"solution-cli/internal/format"
	"solution-cli/internal/mutate"
	"solution-cli/internal/solution"
	"solution-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the store directory (optionally with a starter solution)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			var seeded any
			if seed {
				names, err := app.store.List(ctxOf(cmd))
				if err != nil {
					return writeErr(cmd, err)
				}
				// Seeding only applies to an empty store, like the first TUI start.
				if len(names) == 0 {
					t, err := mutate.Seed(mutate.DefaultRootName)
					if err != nil {
						return writeErr(cmd, err)
					}
					if err := saveSolution(cmd, app, t); err != nil {
						return writeErr(cmd, err)
					}
					seeded = t.Name()
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":     app.Dir,
					"backend": app.Backend,
					"seeded":  seeded,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Create a starter solution when the store is empty")
	return cmd
}

func newNewCmd(app *App) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty solution (name defaults to the next free \"New Solution\")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.store.List(ctxOf(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			name := ""
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			if name == "" {
				if name, err = mutate.NewSolutionName(names); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := store.ValidateRootName(name); err != nil {
				return writeErr(cmd, err)
			}
			if app.store.Exists(name) {
				return writeErr(cmd, &store.DuplicateRootError{Name: name})
			}

			var t *solution.Tree
			if seed {
				if t, err = mutate.Seed(name); err != nil {
					return writeErr(cmd, err)
				}
			} else {
				t = solution.NewTree(name)
				t.Root().SetExpanded(true)
			}
			if err := saveSolution(cmd, app, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newSolutionView(app, t)})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Add the starter tasks")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored solutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.store.List(ctxOf(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]map[string]any, 0, len(names))
			for _, n := range names {
				out = append(out, map[string]any{"name": n, "file": app.store.Path(n)})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <solution> [path]",
		Short: "Show a solution, or one item and everything below it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				if app.Format == "tree" {
					return writeOut(cmd, app, map[string]any{"data": format.Tree{Tree: t}})
				}
				return writeOut(cmd, app, map[string]any{"data": newSolutionView(app, t)})
			}
			it, err := mutate.Resolve(t, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"item":  newItemView(it),
					"items": subtreeRows(t, it),
				},
			})
		},
	}
}

func newTreeCmd(app *App) *cobra.Command {
	var ascii bool
	var collapsed bool

	cmd := &cobra.Command{
		Use:   "tree <solution>",
		Short: "Print a solution as a text tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			v := map[string]any{"data": format.Tree{Tree: t, ASCII: ascii, ExpandedOnly: collapsed}}
			return format.Write(cmd.OutOrStdout(), v, "tree", false)
		},
	}
	cmd.Flags().BoolVar(&ascii, "ascii", false, "Use ASCII check markers")
	cmd.Flags().BoolVar(&collapsed, "expanded-only", false, "Hide children of collapsed items")
	return cmd
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <solution>",
		Short: "Report composites whose stored check state disagrees with their children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			bad := solution.CheckConsistency(t)
			if bad == nil {
				bad = []solution.Inconsistency{}
			}
			if err := writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"name":            t.Name(),
					"valid":           len(bad) == 0,
					"inconsistencies": bad,
				},
			}); err != nil {
				return err
			}
			if len(bad) > 0 {
				return writeErr(cmd, fmt.Errorf("%d inconsistent item(s) in %q", len(bad), t.Name()))
			}
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <solution>",
		Short: "Delete a stored solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.Delete(ctxOf(cmd), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
}

func newRootRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "root-rename <solution> <new-name>",
		Short: "Rename a solution (its root item and its file)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.store.Rename(ctxOf(cmd), args[0], strings.TrimSpace(args[1]))
			if err != nil {
				if errors.Is(err, store.ErrDuplicateRoot) {
					return writeErr(cmd, fmt.Errorf("%w (choose another name)", err))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"from": args[0],
					"to":   strings.TrimSpace(args[1]),
					"file": app.store.Path(strings.TrimSpace(args[1])),
				},
			})
		},
	}
}
