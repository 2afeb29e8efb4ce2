// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// plainListItem matches list items that can be written without quotes.
var plainListItem = regexp.MustCompile(`^[\p{L}\p{N}_][\p{L}\p{N}_.+/()-]*$`)

// ParseValue coerces a raw front-matter value. The order is: bracketed
// list, quoted string, boolean, integer, float, raw string.
func ParseValue(val string) any {
	if strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]") {
		if list, err := parseFlowList(val); err == nil {
			return list
		}
		return splitList(val)
	}
	if len(val) >= 2 && (val[0] == '"' && val[len(val)-1] == '"' || val[0] == '\'' && val[len(val)-1] == '\'') {
		return val[1 : len(val)-1]
	}
	switch strings.ToLower(val) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}

// parseFlowList decodes a bracketed literal as a YAML flow sequence.
// Every element must be a scalar; its literal text becomes the item.
func parseFlowList(val string) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(val), &node); err != nil {
		return nil, err
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) != 1 {
		return nil, fmt.Errorf("not a single document")
	}
	seq := node.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("not a sequence")
	}
	out := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("non-scalar list item")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// splitList is the fallback for list literals YAML rejects.
func splitList(val string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(val, "["), "]")
	out := []string{}
	for _, part := range strings.Split(inner, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatValue renders v so that ParseValue(FormatValue(v)) yields v back.
// Newlines are flattened to spaces since values are line-based.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return formatString(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case []string:
		return formatList(t)
	case []any:
		items := make([]string, len(t))
		for i, x := range t {
			items[i] = fmt.Sprint(x)
		}
		return formatList(items)
	default:
		return formatString(fmt.Sprint(t))
	}
}

func formatString(s string) string {
	s = flatten(s)
	if needsQuotes(s) {
		return `"` + s + `"`
	}
	return s
}

// needsQuotes reports whether s would not survive ParseValue unquoted.
func needsQuotes(s string) bool {
	if s == "" || strings.TrimSpace(s) != s || strings.Contains(s, ":") {
		return true
	}
	parsed, isString := ParseValue(s).(string)
	return !isString || parsed != s
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatList(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		item = flatten(item)
		if plainListItem.MatchString(item) {
			parts[i] = item
		} else {
			parts[i] = strconv.Quote(item)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
