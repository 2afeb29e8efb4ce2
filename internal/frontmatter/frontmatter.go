// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter parses and renders the key/value header block at the
// top of a note. The block is fenced by "---" lines and holds one
// "key: value" pair per line; list values are bracketed literals.
package frontmatter

import (
	"strings"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Delimiter opens and closes the front-matter block.
const Delimiter = "---"

// Map is an insertion-ordered front-matter mapping. Values are string,
// bool, int, float64 or []string. The zero value is ready to use.
type Map struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{m: orderedmap.New[string, any]()}
}

func (fm *Map) init() {
	if fm.m == nil {
		fm.m = orderedmap.New[string, any]()
	}
}

// Len returns the number of keys.
func (fm *Map) Len() int {
	if fm == nil || fm.m == nil {
		return 0
	}
	return fm.m.Len()
}

// Get returns the raw value stored under key.
func (fm *Map) Get(key string) (any, bool) {
	if fm == nil || fm.m == nil {
		return nil, false
	}
	return fm.m.Get(key)
}

// Has reports whether key is present.
func (fm *Map) Has(key string) bool {
	_, ok := fm.Get(key)
	return ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (fm *Map) Set(key string, value any) {
	fm.init()
	fm.m.Set(key, value)
}

// Delete removes key.
func (fm *Map) Delete(key string) {
	if fm != nil && fm.m != nil {
		fm.m.Delete(key)
	}
}

// Keys returns the keys in insertion order.
func (fm *Map) Keys() []string {
	if fm == nil || fm.m == nil {
		return nil
	}
	keys := make([]string, 0, fm.m.Len())
	for pair := fm.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// String returns the value under key as text. Missing keys yield "".
func (fm *Map) String(key string) string {
	v, ok := fm.Get(key)
	if !ok || v == nil {
		return ""
	}
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return cast.ToString(v)
}

// Strings returns the value under key as a list. A scalar string is
// treated as a one-element list; an empty scalar as no elements.
func (fm *Map) Strings(key string) []string {
	v, ok := fm.Get(key)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	default:
		return cast.ToStringSlice(v)
	}
}

// Int returns the value under key as an integer, or 0 when it is missing
// or not numeric.
func (fm *Map) Int(key string) int {
	v, ok := fm.Get(key)
	if !ok {
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

// PaperID returns the paper_id value.
func (fm *Map) PaperID() string {
	return fm.String("paper_id")
}

// Clone returns a shallow copy preserving key order.
func (fm *Map) Clone() *Map {
	out := NewMap()
	if fm == nil || fm.m == nil {
		return out
	}
	for pair := fm.m.Oldest(); pair != nil; pair = pair.Next() {
		out.m.Set(pair.Key, pair.Value)
	}
	return out
}

// Parse extracts the front-matter block from text. When text does not
// begin with a delimiter line, or the block is never closed, it returns an
// empty Map and offset 0. Otherwise offset is the index immediately after
// the closing delimiter, so text[offset:] is the body.
func Parse(text string) (*Map, int) {
	fm := NewMap()

	first, rest, found := strings.Cut(text, "\n")
	if !found || !isDelimiter(first) {
		return fm, 0
	}

	pos := len(first) + 1
	var header []string
	for {
		line, next, more := strings.Cut(rest, "\n")
		if isDelimiter(line) {
			parseLines(fm, header)
			return fm, pos + len(strings.TrimRight(line, " \t\r"))
		}
		if !more {
			return NewMap(), 0
		}
		header = append(header, line)
		pos += len(line) + 1
		rest = next
	}
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}

func parseLines(fm *Map, lines []string) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fm.Set(key, ParseValue(strings.TrimSpace(val)))
	}
}
