// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"fmt"
	"strings"
)

const (
	generatedBy = "> Generated by paper-notes review"
	separator   = " · "
)

// Render produces the review markdown for items.
func Render(title string, items []Item, includeAbstract bool) string {
	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add("# "+title, "", generatedBy, "")

	add("## Overview",
		"| Paper | Year | Venue | Tags | Notes |",
		"|---|---:|---|---|---|")
	for _, it := range items {
		m := it.Meta
		add(fmt.Sprintf("| %s | %s | %s | %s | %s |",
			it.Title(), m.String("year"), m.String("venue"),
			strings.Join(m.Strings("tags"), ", "), noteLink(it)))
	}
	add("")

	for i, it := range items {
		add(fmt.Sprintf("## %d. %s", i+1, it.Title()), metaLine(it), "")
		if len(it.TLDR) > 0 {
			add("**TL;DR:**")
			for _, b := range it.TLDR {
				add("- " + b)
			}
			add("")
		}
		if includeAbstract && it.Abstract != "" {
			add("**Abstract (auto-extracted):**", it.Abstract, "")
		}
		add(linkLine(it), "")
	}

	var bibs []string
	for _, it := range items {
		if it.BibTeX != "" {
			bibs = append(bibs, it.BibTeX)
		}
	}
	if len(bibs) > 0 {
		add("## References (BibTeX)", "```bibtex")
		for _, b := range bibs {
			add(b)
			if !strings.HasSuffix(b, "\n") {
				add("")
			}
		}
		add("```", "")
	}

	return strings.Join(lines, "\n")
}

func noteLink(it Item) string {
	return fmt.Sprintf("[%s](%s)", it.PaperID(), it.Path)
}

// metaLine renders "authors · venue year · DOI: x" without empty segments.
func metaLine(it Item) string {
	m := it.Meta
	var parts []string
	if authors := strings.Join(m.Strings("authors"), ", "); authors != "" {
		parts = append(parts, authors)
	}
	if vy := strings.TrimSpace(m.String("venue") + " " + m.String("year")); vy != "" {
		parts = append(parts, vy)
	}
	if doi := m.String("doi"); doi != "" {
		parts = append(parts, "DOI: "+doi)
	}
	return strings.Join(parts, separator)
}

func linkLine(it Item) string {
	parts := []string{"Note: " + noteLink(it)}
	if link := it.Meta.String("pdf_link"); link != "" {
		parts = append(parts, "PDF: "+link)
	}
	if it.LocalPDF != "" {
		parts = append(parts, "Local: "+it.LocalPDF)
	}
	return strings.Join(parts, separator)
}
