// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9]+`)
	yearNameRe = regexp.MustCompile(`^(\d{4})[-_](.+)`)
)

const unknownPrefix = "unknown"

// Slug lower-cases s and collapses every run of characters outside [a-z0-9]
// into a single hyphen, trimming hyphens at both ends.
func Slug(s string) string {
	return strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// InferPaperID derives the paper ID and year from a PDF filename.
// "2023_Attention-Is-All.pdf" yields ("2023-attention-is-all", "2023");
// names without a leading year yield ("unknown-<slug>", "").
func InferPaperID(filename string) (id, year string) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if m := yearNameRe.FindStringSubmatch(stem); m != nil {
		return m[1] + "-" + Slug(m[2]), m[1]
	}
	return unknownPrefix + "-" + Slug(stem), ""
}
