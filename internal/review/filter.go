// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"slices"
	"strings"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/internal/note"
)

// Filter selects notes. The three axes combine with AND; a zero value on an
// axis imposes no constraint.
type Filter struct {
	// Tags matches notes sharing at least one tag, case-insensitively.
	Tags []string

	// Year matches notes whose year equals it exactly. Zero means any year.
	Year int

	// PaperIDs restricts the selection to these paper IDs.
	PaperIDs []string
}

// IsEmpty reports whether the filter matches every note.
func (f Filter) IsEmpty() bool {
	return len(f.Tags) == 0 && f.Year == 0 && len(f.PaperIDs) == 0
}

// Match reports whether a note with front matter meta passes the filter.
func (f Filter) Match(meta *frontmatter.Map) bool {
	if len(f.PaperIDs) > 0 && !slices.Contains(f.PaperIDs, meta.PaperID()) {
		return false
	}
	if f.Year != 0 && meta.Int("year") != f.Year {
		return false
	}
	if len(f.Tags) > 0 && !intersects(f.Tags, meta.Strings("tags")) {
		return false
	}
	return true
}

func intersects(want, have []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[strings.ToLower(t)] = true
	}
	for _, t := range want {
		if set[strings.ToLower(t)] {
			return true
		}
	}
	return false
}

// Find loads the notes in notesDir that pass f, in path order.
func Find(notesDir string, f Filter) ([]*note.Note, error) {
	all, err := note.LoadAll(notesDir)
	if err != nil {
		return nil, err
	}
	var out []*note.Note
	for _, n := range all {
		if f.Match(n.Meta) {
			out = append(out, n)
		}
	}
	return out, nil
}
