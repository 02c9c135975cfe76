package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"solution-cli/internal/model"
)

// Format names a persistence backend.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatXML    Format = "xml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

// DefaultFormat is used when neither flags nor config name a backend.
const DefaultFormat = FormatSQLite

// Backend reads and writes one solution per file. Write replaces the file as a whole;
// Read validates the stored item type table before returning any node.
type Backend interface {
	Format() Format
	Ext() string
	Write(ctx context.Context, path string, s model.Solution) error
	Read(ctx context.Context, path string) (model.Solution, error)
}

// Formats lists the supported backends.
func Formats() []Format {
	return []Format{FormatSQLite, FormatXML, FormatYAML, FormatJSON}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return DefaultFormat, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (expected sqlite|xml|yaml|json)", s)
}

// BackendFor resolves a backend by name.
func BackendFor(f Format) (Backend, error) {
	switch f {
	case FormatSQLite:
		return SQLiteBackend{}, nil
	case FormatXML:
		return XMLBackend{}, nil
	case FormatYAML:
		return YAMLBackend{}, nil
	case FormatJSON:
		return JSONBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", f)
	}
}

// parentFirst orders nodes so every parent precedes its children, siblings by id.
// Nodes that cannot be reached from a parentless node keep their relative order at
// the end so the loader can report them.
func parentFirst(nodes []model.Node) []model.Node {
	byParent := map[int64][]int{}
	var roots []int
	for i, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], i)
	}
	byID := func(idx []int) {
		sort.SliceStable(idx, func(a, b int) bool { return nodes[idx[a]].ID < nodes[idx[b]].ID })
	}
	byID(roots)

	out := make([]model.Node, 0, len(nodes))
	placed := make([]bool, len(nodes))
	expanded := map[int64]bool{}
	var visit func(i int)
	visit = func(i int) {
		if placed[i] {
			return
		}
		placed[i] = true
		out = append(out, nodes[i])
		id := nodes[i].ID
		if expanded[id] {
			return
		}
		expanded[id] = true
		kids := byParent[id]
		byID(kids)
		for _, k := range kids {
			visit(k)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	for i := range nodes {
		if !placed[i] {
			out = append(out, nodes[i])
		}
	}
	return out
}
