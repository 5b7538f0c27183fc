// Package docs bundles long-form help topics with the conch binary.
package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed topics
var topicFS embed.FS

// Topic returns the markdown source of a named help topic.
func Topic(name string) (string, error) {
	data, err := topicFS.ReadFile("topics/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("no help topic %q", name)
	}
	return string(data), nil
}

// Topics lists the available topic names, sorted.
func Topics() []string {
	entries, err := topicFS.ReadDir("topics")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}
