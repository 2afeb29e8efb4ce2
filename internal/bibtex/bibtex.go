// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex generates BibTeX entries from note front matter and fills
// the placeholder entry left in new note stubs.
package bibtex

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/internal/markdown"
	"github.com/pdiddy/paper-notes/internal/note"
)

// placeholderRe matches an entry with no key and no fields, such as the
// stub's "@inproceedings{\n}".
var placeholderRe = regexp.MustCompile(`^@[a-zA-Z]*\{[\s,]*\}$`)

// IsPlaceholder reports whether bib is empty or a field-less stub entry.
func IsPlaceholder(bib string) bool {
	bib = strings.TrimSpace(bib)
	return bib == "" || placeholderRe.MatchString(bib)
}

// IsProceedings reports whether venue names a conference-style venue.
func IsProceedings(venue string) bool {
	v := strings.ToLower(venue)
	for _, marker := range []string{"proceedings", "conference", "workshop", "symposium", "conf."} {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}

// Key derives a citation key: the first author's family name and the year,
// e.g. "vaswani2017". Without an author the paper ID is used.
func Key(meta *frontmatter.Map) string {
	var key string
	if authors := meta.Strings("authors"); len(authors) > 0 {
		key = asciiLower(familyName(authors[0]))
	}
	if key == "" {
		return asciiLower(meta.PaperID())
	}
	if y := meta.Int("year"); y > 0 {
		key += fmt.Sprint(y)
	}
	return key
}

// Generate renders a single entry for meta. Conference venues produce an
// @inproceedings entry with booktitle; everything else is an @article.
func Generate(meta *frontmatter.Map) string {
	venue := meta.String("venue")
	kind, venueField := "article", "journal"
	if IsProceedings(venue) {
		kind, venueField = "inproceedings", "booktitle"
	}

	title := meta.String("title")
	if title == "" {
		title = meta.PaperID()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", kind, Key(meta))
	fmt.Fprintf(&b, "  title = {%s},\n", title)
	if authors := meta.Strings("authors"); len(authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(authors, " and "))
	}
	if venue != "" {
		fmt.Fprintf(&b, "  %s = {%s},\n", venueField, venue)
	}
	if y := meta.Int("year"); y > 0 {
		fmt.Fprintf(&b, "  year = {%d},\n", y)
	}
	if doi := meta.String("doi"); doi != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", doi)
	}
	if link := meta.String("pdf_link"); link != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", link)
	}
	b.WriteString("}")
	return b.String()
}

// FillNote replaces a placeholder BibTeX block in the note at path with a
// generated entry. It reports false and leaves the file alone when the
// note already has a real entry or no BibTeX block.
func FillNote(path string) (bool, error) {
	n, err := note.Load(path)
	if err != nil {
		return false, err
	}
	if !IsPlaceholder(n.BibTeX) {
		return false, nil
	}
	text, ok := markdown.ReplaceFencedBlock(n.Body, markdown.HeadingBibTeX, Generate(n.Meta))
	if !ok {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat note %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing note %s: %w", path, err)
	}
	return true, nil
}

func familyName(name string) string {
	name = strings.TrimSpace(name)
	if family, _, ok := strings.Cut(name, ","); ok {
		return family
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// asciiLower strips accents and keeps lower-cased ASCII letters and digits.
func asciiLower(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
