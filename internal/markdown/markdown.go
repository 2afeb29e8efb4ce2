// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown slices note bodies by heading and pulls bullets and
// fenced code blocks out of the resulting sections.
package markdown

import (
	"regexp"
	"strings"
)

// Headings used by the note template. Section lookups match the full
// heading line exactly, markers included.
const (
	HeadingTLDR         = "## TL;DR（3行）"
	HeadingContribution = "## Contribution"
	HeadingMethod       = "## Method"
	HeadingResults      = "## Results / Limits"
	HeadingForMyWork    = "## For my work"
	HeadingQuotes       = "## Quotes"
	HeadingBibTeX       = "## BibTeX"
)

// fencedBlockRe matches the first fenced code block, with an optional
// language tag on the opening fence. Fences may end in LF or CRLF.
var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\r?\n(.*?)\r?\n```")

// normalizeNewlines converts CRLF line endings to LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Section returns the text between the line equal to heading (ignoring
// surrounding whitespace) and the next level-1 or level-2 heading. It
// returns "" when the heading is absent. CRLF input yields LF output.
func Section(text, heading string) string {
	want := strings.TrimSpace(heading)
	lines := strings.Split(normalizeNewlines(text), "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == want {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if isTopHeading(lines[i]) {
			end = i
			break
		}
	}
	return strings.Trim(strings.Join(lines[start:end], "\n"), "\n")
}

// isTopHeading reports whether line opens a level-1 or level-2 heading:
// one or two '#' followed by whitespace.
func isTopHeading(line string) bool {
	s := strings.TrimLeft(line, " \t")
	for _, marker := range []string{"## ", "##\t", "# ", "#\t"} {
		if strings.HasPrefix(s, marker) {
			return true
		}
	}
	return false
}

// Bullets returns the "- " list items of section with the marker removed.
func Bullets(section string) []string {
	var out []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			out = append(out, strings.TrimSpace(line[2:]))
		}
	}
	return out
}

// FencedBlock returns the trimmed content of the first fenced code block in
// section, or "" when there is none.
func FencedBlock(section string) string {
	m := fencedBlockRe.FindStringSubmatch(section)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(normalizeNewlines(m[1]))
}

// BibTeX returns the first fenced block under the BibTeX heading.
func BibTeX(text string) string {
	sec := Section(text, HeadingBibTeX)
	if sec == "" {
		return ""
	}
	return FencedBlock(sec)
}

// ReplaceFencedBlock swaps the content of the first fenced block under
// heading for content. It reports false when there is no such block.
// When text uses CRLF line endings, content is written with CRLF too.
func ReplaceFencedBlock(text, heading, content string) (string, bool) {
	want := strings.TrimSpace(heading)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != want {
			continue
		}
		prefix := strings.Join(lines[:i+1], "\n")
		rest := strings.Join(lines[i+1:], "\n")
		loc := fencedBlockRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			return text, false
		}
		if next := nextHeadingOffset(rest); next >= 0 && next < loc[0] {
			return text, false
		}
		content = normalizeNewlines(strings.TrimSpace(content))
		if strings.Contains(text, "\r\n") {
			content = strings.ReplaceAll(content, "\n", "\r\n")
		}
		rest = rest[:loc[2]] + content + rest[loc[3]:]
		return prefix + "\n" + rest, true
	}
	return text, false
}

func nextHeadingOffset(text string) int {
	pos := 0
	for _, line := range strings.Split(text, "\n") {
		if isTopHeading(line) {
			return pos
		}
		pos += len(line) + 1
	}
	return -1
}
