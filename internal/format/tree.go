package format

import (
	"io"

	"solution-cli/internal/solution"

	"github.com/ddddddO/gtree"
)

// TreeWriter is implemented by values with a plain-text tree rendering.
type TreeWriter interface {
	WriteTree(w io.Writer) error
}

// treeValue unwraps the {"data": v} envelope used by the CLI.
func treeValue(v any) (TreeWriter, bool) {
	if m, ok := v.(map[string]any); ok {
		v = m["data"]
	}
	tw, ok := v.(TreeWriter)
	return tw, ok
}

// Tree renders a solution tree with checkbox markers.
type Tree struct {
	Tree *solution.Tree
	// ASCII selects "[x]"-style markers; otherwise unicode boxes are used.
	ASCII bool
	// ExpandedOnly hides the children of collapsed items.
	ExpandedOnly bool
}

func (t Tree) WriteTree(w io.Writer) error {
	rows := t.Tree.Snapshot(t.ExpandedOnly)
	if len(rows) == 0 {
		return nil
	}
	nodes := make([]*gtree.Node, len(rows))
	stack := []*gtree.Node{}
	for i, r := range rows {
		label := CheckMarker(r.Checked, t.ASCII) + " " + r.Name
		if r.Depth == 0 {
			nodes[i] = gtree.NewRoot(label)
			stack = []*gtree.Node{nodes[i]}
			continue
		}
		stack = stack[:r.Depth]
		nodes[i] = stack[r.Depth-1].Add(label)
		stack = append(stack, nodes[i])
	}
	return gtree.OutputFromRoot(w, nodes[0])
}

// CheckMarker is the checkbox glyph for s.
func CheckMarker(s solution.CheckState, ascii bool) string {
	switch {
	case ascii && s == solution.Checked:
		return "[x]"
	case ascii && s == solution.Indeterminate:
		return "[-]"
	case ascii:
		return "[ ]"
	case s == solution.Checked:
		return "☑"
	case s == solution.Indeterminate:
		return "◪"
	default:
		return "☐"
	}
}
