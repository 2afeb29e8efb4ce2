// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const exportLimit = 100000

// Export writes every note matching opts to w in the given format.
// Snippets are omitted.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format Format, w io.Writer) error {
	opts.MaxResults = exportLimit
	results, err := s.Search(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []Result{}
	}
	for i := range results {
		results[i].Snippet = ""
	}

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q: use yaml or json", format)
	}
	return nil
}

// ExportFile writes the export to path, choosing the format from the file
// extension (.json, otherwise YAML).
func (s *Store) ExportFile(ctx context.Context, opts QueryOptions, path string) error {
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := s.Export(ctx, opts, format, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
