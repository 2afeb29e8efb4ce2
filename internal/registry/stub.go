// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-notes/internal/markdown"
)

// StubPlaceholder is the BibTeX body written into new notes.
const StubPlaceholder = "@inproceedings{\n}"

// Stub returns the template note for a newly registered paper.
func Stub(paperID, year, localHint string) string {
	lines := []string{
		"---",
		"paper_id: " + paperID,
		`title: ""`,
		"authors: []",
		"venue: ",
		"year: " + year,
		"doi: ",
		"pdf_link: ",
		"local_hint: " + localHint,
		"tags: []",
		"pestle: []",
		"methods: []",
		"code: ",
		"datasets: []",
		"my_rating: ",
		"replication_risk: ",
		"---",
		markdown.HeadingTLDR,
		"- ",
		"- ",
		"- ",
		"",
		markdown.HeadingContribution,
		markdown.HeadingMethod,
		markdown.HeadingResults,
		markdown.HeadingForMyWork,
		markdown.HeadingQuotes,
		markdown.HeadingBibTeX,
		"```bibtex",
		StubPlaceholder,
		"```",
	}
	return strings.Join(lines, "\n")
}

// WriteStub writes the template note to path unless a file already exists
// there. The created return value is false when an existing note was kept.
func WriteStub(path, paperID, year, localHint string) (created bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating notes directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("creating note %s: %w", path, err)
	}
	if _, err := f.WriteString(Stub(paperID, year, localHint)); err != nil {
		f.Close()
		os.Remove(path)
		return false, fmt.Errorf("writing note %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return false, fmt.Errorf("closing note %s: %w", path, err)
	}
	return true, nil
}
