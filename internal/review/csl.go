// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-notes/internal/bibtex"
)

// CSLItem is a bibliography entry in CSL-YAML form, readable by Pandoc and
// reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes items as a CSL-YAML list to w.
func WriteCSL(items []Item, w io.Writer) error {
	out := make([]CSLItem, len(items))
	for i, it := range items {
		out[i] = toCSLItem(it)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

func toCSLItem(it Item) CSLItem {
	m := it.Meta
	item := CSLItem{
		ID:             it.PaperID(),
		Type:           "article-journal",
		Title:          it.Title(),
		ContainerTitle: m.String("venue"),
		Abstract:       it.Abstract,
		DOI:            m.String("doi"),
		URL:            m.String("pdf_link"),
	}
	if bibtex.IsProceedings(item.ContainerTitle) {
		item.Type = "paper-conference"
	}
	for _, a := range m.Strings("authors") {
		if name := parseAuthorName(a); name != (CSLName{}) {
			item.Author = append(item.Author, name)
		}
	}
	if y := m.Int("year"); y > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// parseAuthorName splits a full name into CSL family/given parts. "Family,
// Given" is honoured; otherwise the last token is the family name. Single
// tokens use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
