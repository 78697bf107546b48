// Package docs holds the divyield user manual, one markdown file per topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var manual embed.FS

// Index is the topic listing all the others.
const Index = "readme"

// Topics returns the names of the documented topics, sorted, the index excluded.
func Topics() ([]string, error) {
	files, err := fs.Glob(manual, "*.md")
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(files))
	for _, file := range files {
		if name := strings.TrimSuffix(file, ".md"); name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics, nil
}

// Read returns the content of topics, one after the other. "*" stands for every topic.
func Read(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		names := []string{topic}
		if topic == "*" {
			all, err := Topics()
			if err != nil {
				return "", err
			}
			names = all
		}
		for _, name := range names {
			content, err := manual.ReadFile(name + ".md")
			if err != nil {
				return "", fmt.Errorf("topic %q not found: %w", name, err)
			}
			b.Write(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
