package cli

import (
	"errors"
	"fmt"
	"strings"

	"solution-cli/internal/publish"
	"solution-cli/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var toDir string
	var overwrite bool
	var includeTypes bool
	var render bool
	var raw bool
	var width int
	var style string

	cmd := &cobra.Command{
		Use:   "export <solution>",
		Short: "Export a solution as a Markdown checklist (derived, not canonical)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openSolution(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			if render || raw {
				md := publish.RenderSolutionMarkdown(t, publish.RenderOptions{IncludeTypes: includeTypes})
				if render {
					if md, err = publish.Render(md, width, style); err != nil {
						return writeErr(cmd, err)
					}
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}

			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteSolution(t, toDir, publish.WriteOptions{
				Overwrite:    overwrite,
				IncludeTypes: includeTypes,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"_hints": []string{
					"git status",
					"git add -A",
					"git commit -m \"Export: " + t.Name() + "\"",
				},
			})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&includeTypes, "types", false, "Append item types to each line")
	cmd.Flags().BoolVar(&render, "render", false, "Render to the terminal instead of writing a file")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown to stdout instead of writing a file")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	cmd.Flags().StringVar(&style, "style", "", "Glamour style for --render (dark|light|notty; default: detect)")
	return cmd
}

func newMigrateCmd(app *App) *cobra.Command {
	var to string
	var toDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every solution into another backend (source files are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(to) == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			f, err := store.ParseFormat(to)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := store.BackendFor(f)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir := strings.TrimSpace(toDir)
			if dir == "" {
				dir = app.Dir
			}
			dst := store.Store{Dir: dir, Backend: b, Log: app.log}
			res, err := store.Migrate(ctxOf(cmd), app.store, dst)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"_hints": []string{
					"solution --backend " + string(f) + " list",
					"solution config set store.format " + string(f),
				},
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target backend (sqlite|xml|yaml|json)")
	cmd.Flags().StringVar(&toDir, "to-dir", "", "Target directory (default: the current store dir)")
	return cmd
}
