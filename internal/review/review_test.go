// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/pkg/types"
)

const fooNote = "---\npaper_id: 2021-foo\ntags: [a, b]\n---\n## TL;DR（3行）\n- point one\n- point two\n"

const barNote = `---
paper_id: 2019-bar
title: Bar Networks
authors: [Ada Lovelace, Alan Turing]
venue: NeurIPS
year: 2019
doi: 10.1000/bar
pdf_link: https://example.org/bar.pdf
local_hint: 2019_bar.pdf
tags: [NLP, Vision]
---
## TL;DR（3行）
- fast
- small

## BibTeX
` + "```bibtex\n@article{bar2019,\n  title = {Bar}\n}\n```\n"

// fakeAbstracts records which PDFs were asked for.
type fakeAbstracts struct {
	calls []string
}

func (f *fakeAbstracts) Abstract(path string, _ int) string {
	f.calls = append(f.calls, path)
	return "abstract of " + filepath.Base(path)
}

func setup(t *testing.T, notes map[string]string) types.CollectionConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := types.CollectionConfig{
		NotesDir:   filepath.Join(dir, "notes"),
		ReviewsDir: filepath.Join(dir, "reviews"),
		DataDir:    filepath.Join(dir, "data"),
	}
	require.NoError(t, os.MkdirAll(cfg.NotesDir, 0o755))
	for name, content := range notes {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.NotesDir, name), []byte(content), 0o644))
	}
	return cfg
}

func metaOf(t *testing.T, text string) *frontmatter.Map {
	t.Helper()
	m, _ := frontmatter.Parse(text)
	return m
}

func TestFilter_Match(t *testing.T) {
	meta := metaOf(t, "---\npaper_id: p1\ntags: [NLP, Vision]\nyear: 2021\n---\n")

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"tag case-insensitive", Filter{Tags: []string{"vision"}}, true},
		{"tag union", Filter{Tags: []string{"audio", "nlp"}}, true},
		{"tag miss", Filter{Tags: []string{"audio"}}, false},
		{"year hit", Filter{Year: 2021}, true},
		{"year miss", Filter{Year: 2020}, false},
		{"paper allowlist hit", Filter{PaperIDs: []string{"p0", "p1"}}, true},
		{"paper allowlist miss", Filter{PaperIDs: []string{"p2"}}, false},
		{"and across axes", Filter{Tags: []string{"nlp"}, Year: 2020}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(meta))
		})
	}
}

func TestFilter_StringYear(t *testing.T) {
	meta := metaOf(t, "---\nyear: \"2021\"\n---\n")
	assert.True(t, Filter{Year: 2021}.Match(meta))
}

func TestCompile_TagScenario(t *testing.T) {
	cfg := setup(t, map[string]string{"2021-foo.md": fooNote})
	c := NewCompiler(cfg, nil, 2)

	content, items, err := c.Compile(Request{Filter: Filter{Tags: []string{"b"}}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"point one", "point two"}, items[0].TLDR)
	assert.Contains(t, content, "# Literature Review\n")

	content, items, err = c.Compile(Request{Filter: Filter{Tags: []string{"c"}}})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, content)
}

func TestCompile_EmptyCollection(t *testing.T) {
	cfg := types.CollectionConfig{NotesDir: filepath.Join(t.TempDir(), "missing")}
	content, items, err := NewCompiler(cfg, nil, 2).Compile(Request{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, "", content)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCompile_Render(t *testing.T) {
	cfg := setup(t, map[string]string{"2019-bar.md": barNote, "2021-foo.md": fooNote})
	c := NewCompiler(cfg, nil, 2)

	content, items, err := c.Compile(Request{Title: "Survey"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	barPath := filepath.Join(cfg.NotesDir, "2019-bar.md")
	fooPath := filepath.Join(cfg.NotesDir, "2021-foo.md")
	want := strings.Join([]string{
		"# Survey",
		"",
		"> Generated by paper-notes review",
		"",
		"## Overview",
		"| Paper | Year | Venue | Tags | Notes |",
		"|---|---:|---|---|---|",
		"| Bar Networks | 2019 | NeurIPS | NLP, Vision | [2019-bar](" + barPath + ") |",
		"| 2021-foo |  |  | a, b | [2021-foo](" + fooPath + ") |",
		"",
		"## 1. Bar Networks",
		"Ada Lovelace, Alan Turing · NeurIPS 2019 · DOI: 10.1000/bar",
		"",
		"**TL;DR:**",
		"- fast",
		"- small",
		"",
		"Note: [2019-bar](" + barPath + ") · PDF: https://example.org/bar.pdf",
		"",
		"## 2. 2021-foo",
		"",
		"",
		"**TL;DR:**",
		"- point one",
		"- point two",
		"",
		"Note: [2021-foo](" + fooPath + ")",
		"",
		"## References (BibTeX)",
		"```bibtex",
		"@article{bar2019,\n  title = {Bar}\n}",
		"",
		"```",
		"",
	}, "\n")
	assert.Equal(t, want, content)
}

func TestCompile_AbstractsPreferOverrides(t *testing.T) {
	cfg := setup(t, map[string]string{"2019-bar.md": barNote, "2021-foo.md": fooNote})
	cfg.PapersRoot = t.TempDir()
	local := filepath.Join(cfg.PapersRoot, "2019_bar.pdf")
	require.NoError(t, os.WriteFile(local, []byte("%PDF"), 0o644))

	abs := &fakeAbstracts{}
	c := NewCompiler(cfg, abs, 2)

	content, items, err := c.Compile(Request{IncludeAbstract: true})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, local, items[0].LocalPDF)
	assert.Equal(t, "abstract of 2019_bar.pdf", items[0].Abstract)
	assert.Empty(t, items[1].Abstract)
	assert.Contains(t, content, "**Abstract (auto-extracted):**\nabstract of 2019_bar.pdf\n")
	assert.Contains(t, content, "Local: "+local)

	abs.calls = nil
	_, items, err = c.Compile(Request{
		IncludeAbstract: true,
		Overrides:       map[string]string{"2021-foo": "/uploads/foo.pdf"},
		Filter:          Filter{PaperIDs: []string{"2021-foo"}},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"/uploads/foo.pdf"}, abs.calls)
	assert.Equal(t, "abstract of foo.pdf", items[0].Abstract)
}

func TestCompile_AbstractsNotRequested(t *testing.T) {
	cfg := setup(t, map[string]string{"2021-foo.md": fooNote})
	abs := &fakeAbstracts{}
	_, _, err := NewCompiler(cfg, abs, 2).Compile(Request{Overrides: map[string]string{"2021-foo": "x.pdf"}})
	require.NoError(t, err)
	assert.Empty(t, abs.calls)
}

func TestResolveLocalPDF(t *testing.T) {
	dir := t.TempDir()
	cfg := types.CollectionConfig{DataDir: filepath.Join(dir, "data"), PapersRoot: filepath.Join(dir, "root")}
	direct := filepath.Join(dir, "direct.pdf")
	underRoot := filepath.Join(cfg.PapersRoot, "sub", "r.pdf")
	uploaded := filepath.Join(cfg.UploadsDir(), "u.pdf")
	for _, p := range []string{direct, underRoot, uploaded} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("%PDF"), 0o644))
	}

	tests := []struct {
		hint string
		want string
	}{
		{direct, direct},
		{"sub/r.pdf", underRoot},
		{"elsewhere/u.pdf", uploaded},
		{"nowhere.pdf", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			meta := frontmatter.NewMap()
			meta.Set("local_hint", tt.hint)
			assert.Equal(t, tt.want, ResolveLocalPDF(meta, cfg))
		})
	}
}

func TestResolveLocalPDF_NoRoot(t *testing.T) {
	cfg := types.CollectionConfig{DataDir: t.TempDir()}
	meta := frontmatter.NewMap()
	meta.Set("local_hint", "sub/r.pdf")
	assert.Empty(t, ResolveLocalPDF(meta, cfg))
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"tags and year", Filter{Tags: []string{"Vision", "nlp", "NLP"}, Year: 2021}, "review-nlp-vision-2021.md"},
		{"year only", Filter{Year: 2020}, "review-2020.md"},
		{"papers only", Filter{PaperIDs: []string{"x"}}, "review-custom.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.Join("reviews", tt.want), DefaultOutputPath("reviews", tt.filter))
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews", "deep", "r.md")
	require.NoError(t, WriteFile(path, "# R\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# R\n", string(data))
}

func TestBuildContext(t *testing.T) {
	docs := []ContextDoc{
		{PaperID: "a", Text: "alpha", Weight: 1},
		{PaperID: "b", Text: strings.Repeat("b", 10), Weight: 1.5},
		{PaperID: "c", Text: "gamma", Weight: 1},
	}
	got := BuildContext(docs, 2, 4)
	assert.Equal(t, "# [b] (w=1.5)\nbbbb\n\n---\n\n# [a] (w=1.0)\nalph", got)

	assert.Equal(t, "", BuildContext(nil, 5, 2000))
}

func TestContextDocs(t *testing.T) {
	cfg := setup(t, map[string]string{"2019-bar.md": barNote, "2021-foo.md": fooNote})
	require.NoError(t, os.MkdirAll(cfg.UploadsDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadsDir(), "2021-foo.pdf"), []byte("%PDF"), 0o644))

	c := NewCompiler(cfg, &fakeAbstracts{}, 2)
	docs, err := c.ContextDocs(Filter{}, map[string]float64{"2019-bar": 0.5})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "2019-bar", docs[0].PaperID)
	assert.Equal(t, 0.5, docs[0].Weight)
	assert.Equal(t, barNote, docs[0].Text)

	assert.Equal(t, 1.0, docs[1].Weight)
	assert.Equal(t, "abstract of 2021-foo.pdf\n\n"+fooNote, docs[1].Text)
}

func TestRenderPrompt(t *testing.T) {
	got := RenderPrompt("Compare them.", "# [a] (w=1.0)\nx", 1)
	assert.Equal(t, "## Prompt\nCompare them.\n\n## Context (top 1)\n# [a] (w=1.0)\nx\n", got)
}

func TestWriteCSL(t *testing.T) {
	cfg := setup(t, map[string]string{"2019-bar.md": barNote, "2021-foo.md": fooNote})
	_, items, err := NewCompiler(cfg, nil, 2).Compile(Request{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSL(items, &buf))

	var got []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "2019-bar", got[0].ID)
	assert.Equal(t, "Bar Networks", got[0].Title)
	assert.Equal(t, "NeurIPS", got[0].ContainerTitle)
	assert.Equal(t, []CSLName{{Given: "Ada", Family: "Lovelace"}, {Given: "Alan", Family: "Turing"}}, got[0].Author)
	assert.Equal(t, &CSLDate{DateParts: [][]int{{2019}}}, got[0].Issued)
	assert.Equal(t, "10.1000/bar", got[0].DOI)

	assert.Equal(t, "2021-foo", got[1].Title)
	assert.Nil(t, got[1].Issued)
}

func TestParseAuthorName(t *testing.T) {
	assert.Equal(t, CSLName{Family: "Turing", Given: "Alan M."}, parseAuthorName("Turing, Alan M."))
	assert.Equal(t, CSLName{Literal: "Plato"}, parseAuthorName(" Plato "))
	assert.Equal(t, CSLName{}, parseAuthorName("  "))
}
