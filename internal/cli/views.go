package cli

import (
	"strings"

	"solution-cli/internal/publish"
	"solution-cli/internal/solution"
)

type itemView struct {
	ID       int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Path     string `json:"path" yaml:"path"`
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Checked  string `json:"checked" yaml:"checked"`
	Depth    int    `json:"depth" yaml:"depth"`
	Children int    `json:"children,omitempty" yaml:"children,omitempty"`
}

type solutionView struct {
	Name    string          `json:"name" yaml:"name"`
	File    string          `json:"file" yaml:"file"`
	Backend string          `json:"backend" yaml:"backend"`
	Summary publish.Summary `json:"summary" yaml:"summary"`
	Items   []itemView      `json:"items" yaml:"items"`
}

func newItemView(it *solution.Item) itemView {
	v := itemView{
		ID:      it.ID(),
		Path:    it.Path(),
		Name:    it.DisplayName(),
		Type:    strings.ToLower(it.Type().String()),
		Checked: it.Checked().String(),
		Depth:   strings.Count(it.Path(), "/") - 1,
	}
	if it.IsComposite() {
		v.Children = it.Children().Len()
	}
	return v
}

func rowView(r solution.Row) itemView {
	v := itemView{
		ID:      r.Item.ID(),
		Path:    r.Path,
		Name:    r.Name,
		Type:    strings.ToLower(r.Type.String()),
		Checked: r.Checked.String(),
		Depth:   r.Depth,
	}
	if r.Item.IsComposite() {
		v.Children = r.Item.Children().Len()
	}
	return v
}

func newSolutionView(app *App, t *solution.Tree) solutionView {
	rows := t.Snapshot(false)
	items := make([]itemView, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowView(r))
	}
	return solutionView{
		Name:    t.Name(),
		File:    app.store.Path(t.Name()),
		Backend: app.Backend,
		Summary: publish.Summarize(t),
		Items:   items,
	}
}

// subtreeRows returns it and its descendants from a full snapshot.
func subtreeRows(t *solution.Tree, it *solution.Item) []itemView {
	var out []itemView
	prefix := it.Path()
	for _, r := range t.Snapshot(false) {
		if r.Path == prefix || strings.HasPrefix(r.Path, prefix+"/") {
			out = append(out, rowView(r))
		}
	}
	return out
}
