// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleBody = `## TL;DR（3行）
- point one
- point two
  -   indented third
-not a bullet

## Contribution
Adds things.
### Sub detail
still contribution
# Top
after top
## BibTeX
` + "```bibtex\n@article{foo2021,\n  title = {Foo}\n}\n```\n"

func TestSection(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		want    string
	}{
		{"tldr", HeadingTLDR, "- point one\n- point two\n  -   indented third\n-not a bullet"},
		{"level three stays inside", HeadingContribution, "Adds things.\n### Sub detail\nstill contribution"},
		{"level one ends section", "# Top", "after top"},
		{"runs to end of document", HeadingBibTeX, "```bibtex\n@article{foo2021,\n  title = {Foo}\n}\n```"},
		{"absent heading", HeadingQuotes, ""},
		{"heading text must match exactly", "## tl;dr（3行）", ""},
		{"surrounding whitespace ignored", "  ## Contribution  ", "Adds things.\n### Sub detail\nstill contribution"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Section(sampleBody, tt.heading))
		})
	}
}

func TestSection_EmptySection(t *testing.T) {
	text := "## Contribution\n## Method\nm\n"
	assert.Equal(t, "", Section(text, HeadingContribution))
	assert.Equal(t, "m", Section(text, HeadingMethod))
}

func TestBullets(t *testing.T) {
	got := Bullets(Section(sampleBody, HeadingTLDR))
	assert.Equal(t, []string{"point one", "point two", "indented third"}, got)

	assert.Nil(t, Bullets("- \n- \n-"))
}

func TestBibTeX(t *testing.T) {
	assert.Equal(t, "@article{foo2021,\n  title = {Foo}\n}", BibTeX(sampleBody))
	assert.Equal(t, "", BibTeX("## BibTeX\nno fence here\n"))
	assert.Equal(t, "", BibTeX("## Method\n```\ncode\n```\n"))
}

func TestFencedBlock_NoLanguage(t *testing.T) {
	assert.Equal(t, "x = 1", FencedBlock("text\n```\nx = 1\n```\n"))
}

func TestReplaceFencedBlock(t *testing.T) {
	text := "## BibTeX\n```bibtex\n@inproceedings{\n}\n```\n"
	got, ok := ReplaceFencedBlock(text, HeadingBibTeX, "@article{a2020,\n}\n")
	assert.True(t, ok)
	assert.Equal(t, "## BibTeX\n```bibtex\n@article{a2020,\n}\n```\n", got)

	_, ok = ReplaceFencedBlock("## BibTeX\n## Quotes\n```\nq\n```\n", HeadingBibTeX, "x")
	assert.False(t, ok, "block under a later heading must not be replaced")

	unchanged, ok := ReplaceFencedBlock(text, HeadingQuotes, "x")
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(unchanged, "## BibTeX"))
}

func TestCRLFNotes(t *testing.T) {
	crlf := strings.ReplaceAll(sampleBody, "\n", "\r\n")

	assert.Equal(t, "- point one\n- point two\n  -   indented third\n-not a bullet", Section(crlf, HeadingTLDR))
	assert.Equal(t, []string{"point one", "point two", "indented third"}, Bullets(Section(crlf, HeadingTLDR)))
	assert.Equal(t, "@article{foo2021,\n  title = {Foo}\n}", BibTeX(crlf))
	assert.Equal(t, "x = 1", FencedBlock("text\r\n```\r\nx = 1\r\n```\r\n"))
}

func TestReplaceFencedBlock_CRLF(t *testing.T) {
	text := "## BibTeX\r\n```bibtex\r\n@inproceedings{\r\n}\r\n```\r\n"
	got, ok := ReplaceFencedBlock(text, HeadingBibTeX, "@article{a2020,\n}\n")
	assert.True(t, ok)
	assert.Equal(t, "## BibTeX\r\n```bibtex\r\n@article{a2020,\r\n}\r\n```\r\n", got)
	assert.Equal(t, "@article{a2020,\n}", BibTeX(got))
}
