package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"solution-cli/internal/solution"
)

type WriteOptions struct {
	Overwrite    bool
	IncludeTypes bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteSolution writes <toDir>/<root name>.md.
func WriteSolution(t *solution.Tree, toDir string, opt WriteOptions) (WriteResult, error) {
	if t == nil {
		return WriteResult{}, errors.New("missing solution")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	md := RenderSolutionMarkdown(t, RenderOptions{IncludeTypes: opt.IncludeTypes})
	outPath := filepath.Join(toDir, t.Name()+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
