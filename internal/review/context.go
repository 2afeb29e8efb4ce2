// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultTopK        = 5
	DefaultPerDocChars = 2000
	defaultWeight      = 1.0
)

// ContextDoc is one weighted document offered to a prompt.
type ContextDoc struct {
	PaperID string
	Text    string
	Weight  float64
}

// ContextDocs gathers the notes matching f as weighted documents. A note's
// text is its uploaded PDF's abstract (when one exists) followed by the
// note body. Paper IDs missing from weights get weight 1.
func (c *Compiler) ContextDocs(f Filter, weights map[string]float64) ([]ContextDoc, error) {
	notes, err := Find(c.cfg.NotesDir, f)
	if err != nil {
		return nil, err
	}
	docs := make([]ContextDoc, 0, len(notes))
	for _, n := range notes {
		id := n.PaperID()
		text := n.Body
		if abstract := c.uploadedAbstract(id); abstract != "" {
			text = abstract + "\n\n" + n.Body
		}
		w, ok := weights[id]
		if !ok {
			w = defaultWeight
		}
		docs = append(docs, ContextDoc{PaperID: id, Text: text, Weight: w})
	}
	return docs, nil
}

func (c *Compiler) uploadedAbstract(id string) string {
	if c.abstracts == nil || id == "" {
		return ""
	}
	p := filepath.Join(c.cfg.UploadsDir(), id+".pdf")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return c.abstracts.Abstract(p, c.maxPages)
}

// BuildContext keeps the topK heaviest docs (ties keep input order), clips
// each to perDocChars characters and joins them as "# [id] (w=x)" blocks
// separated by horizontal rules. Non-positive limits use the defaults.
func BuildContext(docs []ContextDoc, topK, perDocChars int) string {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if perDocChars <= 0 {
		perDocChars = DefaultPerDocChars
	}
	sorted := make([]ContextDoc, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Weight > sorted[j].Weight })

	parts := make([]string, 0, min(topK, len(sorted)))
	for _, d := range sorted[:min(topK, len(sorted))] {
		parts = append(parts, fmt.Sprintf("# [%s] (w=%s)\n%s", d.PaperID, formatWeight(d.Weight), clip(d.Text, perDocChars)))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// RenderPrompt lays out a prompt with its context for pasting into an
// external assistant.
func RenderPrompt(prompt, context string, k int) string {
	return fmt.Sprintf("## Prompt\n%s\n\n## Context (top %d)\n%s\n", prompt, k, context)
}

func formatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
