package publish

import (
	"bytes"
	"fmt"
	"strings"

	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

type RenderOptions struct {
	// IncludeTypes appends the item type to each line.
	IncludeTypes bool
}

// Summary counts leaves by state. Composites are derived and not counted.
type Summary struct {
	Items     int `json:"items"`
	Tasks     int `json:"tasks"`
	Checked   int `json:"checked"`
	Unchecked int `json:"unchecked"`
}

func Summarize(t *solution.Tree) Summary {
	var s Summary
	for _, r := range t.Snapshot(false) {
		s.Items++
		if r.Type.IsComposite() {
			continue
		}
		s.Tasks++
		if r.Checked == solution.Checked {
			s.Checked++
		} else {
			s.Unchecked++
		}
	}
	return s
}

// RenderSolutionMarkdown renders the tree as a GitHub-style task list. Indeterminate
// items are unchecked boxes marked as partial.
func RenderSolutionMarkdown(t *solution.Tree, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	rows := t.Snapshot(false)
	if len(rows) == 0 {
		return ""
	}
	writeLn("# " + strings.TrimSpace(rows[0].Name))
	writeLn("")
	sum := Summarize(t)
	writeLn(fmt.Sprintf("%d of %d tasks done.", sum.Checked, sum.Tasks))
	writeLn("")

	for _, r := range rows[1:] {
		box := "[ ]"
		if r.Checked == solution.Checked {
			box = "[x]"
		}
		line := strings.Repeat("  ", r.Depth-1) + "- " + box + " " + escapeMarkdown(r.Name)
		if r.Type.IsComposite() {
			line = strings.Repeat("  ", r.Depth-1) + "- " + box + " **" + escapeMarkdown(r.Name) + "**"
		}
		if r.Checked == solution.Indeterminate {
			line += " _(partial)_"
		}
		if opt.IncludeTypes {
			line += " `" + typeLabel(r.Type) + "`"
		}
		writeLn(line)
	}
	return buf.String()
}

func typeLabel(t model.ItemType) string { return strings.ToLower(t.String()) }

func escapeMarkdown(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)
	return r.Replace(s)
}
