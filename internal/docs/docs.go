// Package docs holds the markdown pages printed by `solution docs`: an overview of the
// solution tree, the item types and their naming templates, the storage backends and
// their file extensions, and the configuration keys with their environment overrides.
//
// Each page is content/<topic>.md and starts with a "# Title" line.
package docs

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed content/*.md
var embedded embed.FS

var pages = mustSub(embedded, "content")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Topics lists the page names in sorted order.
func Topics() []string {
	entries, err := fs.ReadDir(pages, ".")
	if err != nil {
		return []string{}
	}
	topics := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".md"); ok && !e.IsDir() && name != "" {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}

// Get returns the markdown for topic. Lookup ignores case and surrounding space.
func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" || strings.ContainsAny(topic, `/\`) {
		return "", false
	}
	b, err := fs.ReadFile(pages, topic+".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Title is the text of the page's leading "# " heading.
func Title(topic string) (string, bool) {
	body, ok := Get(topic)
	if !ok {
		return "", false
	}
	first, _, _ := strings.Cut(body, "\n")
	title, ok := strings.CutPrefix(strings.TrimSpace(first), "# ")
	return strings.TrimSpace(title), ok
}
