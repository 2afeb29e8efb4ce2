// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfmeta scrapes best-effort bibliographic metadata and abstracts
// from PDFs. Reading is delegated to a pluggable Reader; when no reader is
// available every lookup yields empty results instead of an error.
package pdfmeta

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/paper-notes/pkg/types"
)

// ErrUnavailable is returned by readers that cannot read PDFs at all.
var ErrUnavailable = errors.New("pdf reading unavailable")

// Info holds the document information dictionary entries the extractor uses.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	CreationDate string
}

// Document is an open PDF.
type Document interface {
	// Info returns the document information dictionary.
	Info() Info

	// NumPages returns the page count.
	NumPages() int

	// PageText returns the extracted text of page i (0-based).
	PageText(i int) (string, error)

	Close() error
}

// Reader opens PDFs. Different backends (native parser, container tool)
// implement this interface.
type Reader interface {
	Open(path string) (Document, error)
}

// NopReader is the reader used when PDF support is disabled.
type NopReader struct{}

// Open always fails with ErrUnavailable.
func (NopReader) Open(string) (Document, error) {
	return nil, ErrUnavailable
}

const (
	defaultAbstractPages = 2
	abstractFallbackLen  = 500
	minTitleLen          = 8
	minTitleWords        = 3
)

var (
	yearRe     = regexp.MustCompile(`(19|20)\d{2}`)
	doiRe      = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)
	abstractRe = regexp.MustCompile(`(?i)abstract[:.]?\s*(.{100,800})`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Extractor derives paper metadata from PDFs through a Reader.
type Extractor struct {
	reader Reader
}

// NewExtractor returns an Extractor backed by r. A nil reader behaves like
// NopReader.
func NewExtractor(r Reader) *Extractor {
	if r == nil {
		r = NopReader{}
	}
	return &Extractor{reader: r}
}

// Metadata extracts title, authors, keywords, year and DOI from the PDF at
// path. It never fails: whatever was collected before a problem occurred is
// returned.
func (e *Extractor) Metadata(path string) types.PaperMetadata {
	meta := types.PaperMetadata{Authors: []string{}, Keywords: []string{}}

	doc, err := e.open(path)
	if err != nil {
		return meta
	}
	defer doc.Close()

	collectMetadata(doc, &meta)
	return meta
}

func collectMetadata(doc Document, meta *types.PaperMetadata) {
	defer func() { _ = recover() }()

	info := doc.Info()
	meta.Title = strings.TrimSpace(info.Title)
	if authors := splitNames(info.Author); len(authors) > 0 {
		meta.Authors = authors
	}
	if kws := splitNames(info.Keywords); len(kws) > 0 {
		meta.Keywords = kws
	}
	meta.Year = yearRe.FindString(info.CreationDate)

	if doc.NumPages() == 0 {
		return
	}
	text, err := doc.PageText(0)
	if err != nil {
		return
	}
	meta.DOI = doiRe.FindString(text)
	if meta.Title == "" {
		meta.Title = guessTitle(text)
	}
}

// Abstract returns the abstract-like passage of the first maxPages pages:
// the text following an "abstract" marker, or the opening characters when
// there is no marker. It returns "" when the PDF cannot be read.
func (e *Extractor) Abstract(path string, maxPages int) string {
	if maxPages <= 0 {
		maxPages = defaultAbstractPages
	}
	doc, err := e.open(path)
	if err != nil {
		return ""
	}
	defer doc.Close()

	text := leadingText(doc, maxPages)
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}
	if m := abstractRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(truncateRunes(text, abstractFallbackLen))
}

func leadingText(doc Document, maxPages int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	var b strings.Builder
	n := min(maxPages, doc.NumPages())
	for i := 0; i < n; i++ {
		page, err := doc.PageText(i)
		if err != nil {
			continue
		}
		b.WriteString(page)
	}
	return b.String()
}

// open guards against readers that panic on malformed files.
func (e *Extractor) open(path string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("opening %s: %v", path, r)
		}
	}()
	return e.reader.Open(path)
}

// splitNames splits an author or keyword string on commas and semicolons.
func splitNames(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// guessTitle picks the first line longer than 8 characters with at least
// three words.
func guessTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if utf8.RuneCountInString(s) > minTitleLen && len(strings.Fields(s)) >= minTitleWords {
			return s
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
