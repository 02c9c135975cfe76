package main

import (
	"os"
	"strings"

	"solution-cli/internal/cli"
)

// itemPathRoot returns the solution name of an absolute item path like "/Demo/a/b".
func itemPathRoot(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") {
		return "", false
	}
	root, _, _ := strings.Cut(strings.TrimPrefix(s, "/"), "/")
	if root == "" {
		return "", false
	}
	return root, true
}

func rewriteDirectItemLookupArgs(argv []string) []string {
	// Convenience: `solution /Demo/a` works like `solution show Demo /Demo/a`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
	// parsing. Persistent flags may come first (`solution --dir x /Demo/a`), so this
	// looks for the first positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--backend":   true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		root, _ := itemPathRoot(argv[i])
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "show", root)
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				if _, ok := itemPathRoot(argv[i+1]); ok {
					return rewrite(i + 1)
				}
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if _, ok := itemPathRoot(a); ok {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
