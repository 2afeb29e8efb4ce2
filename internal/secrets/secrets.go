// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files,
// one value per file named after its key. The directory is normally
// .secrets/ beside the collection and is never committed.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-notes/pkg/types"
)

// Known key files.
const (
	// CrossrefEmail is the contact address sent to CrossRef as mailto.
	CrossrefEmail = "crossref-email"
)

// Load reads every regular, non-hidden file in dir and returns a map of file
// name to trimmed contents. Empty values are dropped. A missing directory
// yields an empty map; unreadable files are reported to warn and skipped.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Apply copies secrets into cfg where the configuration leaves a value
// unset. Explicit configuration always wins.
func Apply(cfg *types.Config, s map[string]string) {
	if cfg.Enrich.Mailto == "" {
		cfg.Enrich.Mailto = s[CrossrefEmail]
	}
}
