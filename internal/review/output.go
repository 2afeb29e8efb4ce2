// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// DefaultOutputPath names a review file after its filter:
// review-<sorted lower-cased tags>-<year>.md, or review-custom.md when the
// filter has neither.
func DefaultOutputPath(reviewsDir string, f Filter) string {
	var parts []string
	if len(f.Tags) > 0 {
		tags := make([]string, 0, len(f.Tags))
		for _, t := range f.Tags {
			tags = append(tags, strings.ToLower(t))
		}
		slices.Sort(tags)
		parts = append(parts, strings.Join(slices.Compact(tags), "-"))
	}
	if f.Year != 0 {
		parts = append(parts, strconv.Itoa(f.Year))
	}
	if len(parts) == 0 {
		parts = append(parts, "custom")
	}
	return filepath.Join(reviewsDir, "review-"+strings.Join(parts, "-")+".md")
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing review %s: %w", path, err)
	}
	return nil
}
