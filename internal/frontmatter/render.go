// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// PreferredOrder is the key order used when a header is rewritten. Keys
// outside this list follow in their original order.
var PreferredOrder = []string{
	"paper_id", "title", "authors", "venue", "year", "doi", "pdf_link", "local_hint",
	"tags", "pestle", "methods", "code", "datasets", "my_rating", "replication_risk",
}

// Render writes fm as a delimited header block ending in a newline.
// Preferred keys come first, then every other key in insertion order.
func Render(fm *Map) string {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")

	preferred := make(map[string]bool, len(PreferredOrder))
	for _, k := range PreferredOrder {
		preferred[k] = true
		if v, ok := fm.Get(k); ok {
			writeLine(&b, k, v)
		}
	}
	for _, k := range fm.Keys() {
		if preferred[k] {
			continue
		}
		v, _ := fm.Get(k)
		writeLine(&b, k, v)
	}

	b.WriteString(Delimiter + "\n")
	return b.String()
}

func writeLine(b *strings.Builder, key string, v any) {
	val := FormatValue(v)
	if val == "" {
		fmt.Fprintf(b, "%s:\n", key)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", key, val)
}

// Merge overwrites the keys in updates and keeps everything else. New keys
// are appended in sorted order so rewrites are deterministic.
func Merge(fm *Map, updates map[string]any) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fm.Set(k, updates[k])
	}
}

// Rewrite replaces the header of text with fm, keeping the body that
// followed the old header. Leading blank lines of the body are dropped.
// A note written with CRLF line endings gets a CRLF header.
func Rewrite(text string, fm *Map) string {
	_, offset := Parse(text)
	body := strings.TrimLeft(text[offset:], "\r\n")
	header := Render(fm)
	if strings.Contains(text, "\r\n") {
		header = strings.ReplaceAll(header, "\n", "\r\n")
	}
	return header + body
}

// UpdateFile merges updates into the front matter of the note at path and
// writes it back. The body is preserved.
func UpdateFile(path string, updates map[string]any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading note %s: %w", path, err)
	}
	text := string(data)

	fm, _ := Parse(text)
	Merge(fm, updates)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat note %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(Rewrite(text, fm)), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing note %s: %w", path, err)
	}
	return nil
}
