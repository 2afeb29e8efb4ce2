// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/pkg/types"
)

// ResolveLocalPDF finds the PDF a note's local_hint points at. It tries the
// hint itself (absolute or relative to the working directory), then the
// hint under the papers root, then a file of the same name in the uploads
// directory. It returns "" when none exists.
func ResolveLocalPDF(meta *frontmatter.Map, cfg types.CollectionConfig) string {
	hint := strings.TrimSpace(meta.String("local_hint"))
	if hint == "" {
		return ""
	}
	candidates := []string{hint}
	if cfg.PapersRoot != "" {
		candidates = append(candidates, filepath.Join(cfg.PapersRoot, filepath.FromSlash(hint)))
	}
	candidates = append(candidates, filepath.Join(cfg.UploadsDir(), filepath.Base(filepath.FromSlash(hint))))

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
