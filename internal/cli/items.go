package cli

import (
	"fmt"
	"strings"

	"solution-cli/internal/model"
	"solution-cli/internal/mutate"
	"solution-cli/internal/solution"

	"github.com/spf13/cobra"
)

// parseChildType resolves --type. An empty value picks the default for the parent.
func parseChildType(t *solution.Tree, parentPath, typ string) (model.ItemType, error) {
	if strings.TrimSpace(typ) == "" {
		parent, err := mutate.Resolve(t, parentPath)
		if err != nil {
			return 0, err
		}
		return mutate.DefaultChildType(parent.Type()), nil
	}
	it, ok := model.ParseItemType(typ)
	if !ok {
		return 0, fmt.Errorf("unknown --type %q (expected project|toptask|subtask)", typ)
	}
	return it, nil
}

func newAddCmd(app *App) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "add <solution> <parent-path> [name]",
		Short: "Add an item (name defaults to the next free \"New <Type>\")",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := parseChildType(t, args[1], typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			res, err := mutate.AddItem(t, args[1], name, it)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSolution(cmd, app, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"item":      newItemView(res.Item),
					"suggested": res.Suggested,
				},
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Item type (project|toptask|subtask; aliases folder|file)")
	return cmd
}

func newSuggestCmd(app *App) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "suggest <solution> <parent-path>",
		Short: "Print the name add would pick",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := parseChildType(t, args[1], typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			name, err := mutate.SuggestName(t, args[1], it)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"name": name, "type": strings.ToLower(it.String())},
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Item type (project|toptask|subtask)")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <solution> <path>",
		Short: "Remove an item and everything below it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RemoveItem(t, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSolution(cmd, app, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": res.Path, "removed": res.Removed},
			})
		},
	}
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <solution> <path> <new-name>",
		Short: "Rename an item (use root-rename for the solution itself)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := mutate.Resolve(t, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if it.Parent() == nil {
				return writeErr(cmd, fmt.Errorf("%w: use `solution root-rename`", mutate.ErrRootOperation))
			}
			res, err := mutate.RenameItem(t, args[1], args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := saveSolution(cmd, app, t); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"from":    res.OldPath,
					"item":    newItemView(res.Item),
					"changed": res.Changed,
				},
			})
		},
	}
}

func newCheckCmd(app *App) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "check <solution> <path>",
		Short: "Check, uncheck or toggle an item (composites apply to everything below)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var res mutate.SetCheckedResult
			s := strings.ToLower(strings.TrimSpace(state))
			if s == "toggle" {
				res, err = mutate.ToggleChecked(t, args[1])
			} else {
				cs, ok := solution.ParseCheckState(s)
				if !ok {
					return writeErr(cmd, fmt.Errorf("unknown --state %q (expected checked|unchecked|toggle)", state))
				}
				res, err = mutate.SetChecked(t, args[1], cs)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSolution(cmd, app, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"item":    newItemView(res.Item),
					"changed": res.Changed,
					"root":    t.Root().Checked().String(),
				},
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "checked", "checked|unchecked|toggle")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <solution> <path> <new-parent-path>",
		Short: "Move an item (with its subtree) below another composite",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.MoveItem(t, args[1], args[2])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSolution(cmd, app, t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"from": res.OldPath, "item": newItemView(res.Item)},
			})
		},
	}
}
