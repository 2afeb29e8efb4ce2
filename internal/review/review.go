// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review compiles a filtered set of notes into a single markdown
// literature review, and assembles related outputs from the same selection:
// CSL bibliographies and weighted prompt context.
package review

import (
	"github.com/pdiddy/paper-notes/internal/note"
	"github.com/pdiddy/paper-notes/pkg/types"
)

// AbstractExtractor pulls an abstract-like passage from a PDF.
// pdfmeta.Extractor satisfies it.
type AbstractExtractor interface {
	Abstract(path string, maxPages int) string
}

// Item is one note selected for a review.
type Item struct {
	*note.Note

	// Abstract is the extracted abstract, set only when requested.
	Abstract string

	// LocalPDF is the resolved local PDF path, or "".
	LocalPDF string
}

// Request describes one review compilation.
type Request struct {
	Title           string
	Filter          Filter
	IncludeAbstract bool

	// Overrides maps paper IDs to PDFs that take precedence over the
	// note's local_hint when extracting abstracts.
	Overrides map[string]string
}

// DefaultTitle is used when a request has no title.
const DefaultTitle = "Literature Review"

// Compiler builds reviews from one note collection.
type Compiler struct {
	cfg       types.CollectionConfig
	abstracts AbstractExtractor
	maxPages  int
}

// NewCompiler returns a Compiler for cfg. abstracts may be nil when
// abstract extraction is never requested.
func NewCompiler(cfg types.CollectionConfig, abstracts AbstractExtractor, maxPages int) *Compiler {
	return &Compiler{cfg: cfg, abstracts: abstracts, maxPages: maxPages}
}

// Items selects and loads the notes matching f, resolving local PDFs and,
// when includeAbstract is set, abstracts.
func (c *Compiler) Items(f Filter, includeAbstract bool, overrides map[string]string) ([]Item, error) {
	notes, err := Find(c.cfg.NotesDir, f)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(notes))
	for _, n := range notes {
		it := Item{Note: n, LocalPDF: ResolveLocalPDF(n.Meta, c.cfg)}
		if includeAbstract && c.abstracts != nil {
			src := it.LocalPDF
			if p, ok := overrides[n.PaperID()]; ok {
				src = p
			}
			if src != "" {
				it.Abstract = c.abstracts.Abstract(src, c.maxPages)
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// Compile renders the review for req. When no note matches it returns ""
// and an empty item list; callers treat that as nothing to write.
func (c *Compiler) Compile(req Request) (string, []Item, error) {
	items, err := c.Items(req.Filter, req.IncludeAbstract, req.Overrides)
	if err != nil {
		return "", nil, err
	}
	if len(items) == 0 {
		return "", items, nil
	}
	title := req.Title
	if title == "" {
		title = DefaultTitle
	}
	return Render(title, items, req.IncludeAbstract), items, nil
}
