// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package note loads paper notes into structured records and lists the
// notes of a collection.
package note

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/internal/markdown"
)

// ErrNotFound is returned when no note exists for a paper ID.
var ErrNotFound = errors.New("note not found")

// Note is a parsed note file.
type Note struct {
	// Path is the note file path as given to Load.
	Path string

	// Meta is the parsed front matter.
	Meta *frontmatter.Map

	// TLDR holds the bullets under the TL;DR heading.
	TLDR []string

	// BibTeX is the first fenced block under the BibTeX heading.
	BibTeX string

	// Body is the full note text, front matter included.
	Body string
}

// PaperID returns the note's paper_id, or "" when it has none.
func (n *Note) PaperID() string {
	return n.Meta.PaperID()
}

// Title returns the note title, falling back to the paper ID.
func (n *Note) Title() string {
	if t := strings.TrimSpace(n.Meta.String("title")); t != "" {
		return t
	}
	return n.PaperID()
}

// Parse builds a Note from text without touching the filesystem.
func Parse(path, text string) *Note {
	meta, _ := frontmatter.Parse(text)
	return &Note{
		Path:   path,
		Meta:   meta,
		TLDR:   markdown.Bullets(markdown.Section(text, markdown.HeadingTLDR)),
		BibTeX: markdown.BibTeX(text),
		Body:   text,
	}
}

// Load reads and parses the note at path.
func Load(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading note %s: %w", path, err)
	}
	return Parse(path, string(data)), nil
}

// List returns the .md files directly under dir, sorted by path. A missing
// directory yields no notes.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading notes directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadAll loads every note under dir. Unreadable notes are skipped.
func LoadAll(dir string) ([]*Note, error) {
	paths, err := List(dir)
	if err != nil {
		return nil, err
	}
	notes := make([]*Note, 0, len(paths))
	for _, p := range paths {
		n, err := Load(p)
		if err != nil {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Find locates the note for paperID: first <dir>/<paperID>.md, then any
// note whose front matter declares that paper_id.
func Find(dir, paperID string) (*Note, error) {
	direct := filepath.Join(dir, paperID+".md")
	if n, err := Load(direct); err == nil {
		return n, nil
	}
	notes, err := LoadAll(dir)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		if n.PaperID() == paperID {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, paperID)
}
