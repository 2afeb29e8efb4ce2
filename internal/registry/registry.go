// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry assigns paper IDs to PDFs, records them in the manifest,
// and creates note stubs for newly seen papers.
package registry

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/pkg/types"
)

// ErrAlreadyRegistered is returned when a paper ID is already in the
// manifest or already has a note.
var ErrAlreadyRegistered = errors.New("paper already registered")

// MetadataExtractor scrapes metadata from a PDF. pdfmeta.Extractor
// satisfies it.
type MetadataExtractor interface {
	Metadata(path string) types.PaperMetadata
}

// Registry registers papers into one note collection.
type Registry struct {
	cfg       types.CollectionConfig
	extractor MetadataExtractor
}

// New returns a Registry for cfg. extractor may be nil, in which case
// imported papers keep the bare stub front matter.
func New(cfg types.CollectionConfig, extractor MetadataExtractor) *Registry {
	return &Registry{cfg: cfg, extractor: extractor}
}

// Result holds the outcome of a sync or import run.
type Result struct {
	Added   int
	Skipped int
	Failed  int
	IDs     []string
}

// Total returns the number of PDFs processed.
func (r Result) Total() int {
	return r.Added + r.Skipped + r.Failed
}

// HasFailures reports whether any PDF failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Sync walks root for PDFs and registers every one whose ID is not yet in
// the manifest. Manifest paths are recorded relative to root with forward
// slashes. Re-running over an unchanged tree adds nothing.
func (reg *Registry) Sync(root string, w io.Writer) (Result, error) {
	var result Result
	if info, err := os.Stat(root); root == "" || err != nil || !info.IsDir() {
		return result, fmt.Errorf("papers root %q is not set or not a directory", root)
	}
	manifest, err := LoadManifest(reg.cfg.ManifestPath())
	if err != nil {
		return result, err
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			result.Failed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isPDF(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		id, year := InferPaperID(d.Name())
		if manifest.Has(id) {
			fmt.Fprintf(w, "skipped: %s (already registered)\n", id)
			result.Skipped++
			return nil
		}
		row := types.ManifestRow{PaperID: id, Year: year, SourcePath: rel}
		if err := reg.register(row, rel); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", rel, err)
			result.Failed++
			return nil
		}
		manifest[id] = row
		fmt.Fprintf(w, "added:   %s\n", id)
		result.Added++
		result.IDs = append(result.IDs, id)
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	fmt.Fprintf(w, "\nSync summary: %d added, %d skipped, %d failed (total: %d)\n",
		result.Added, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// register writes the note stub, then appends the manifest row. A paper
// is only recorded once its note exists, so a failed run is retried by the
// next one. A stub created here is removed again if the append fails.
func (reg *Registry) register(row types.ManifestRow, localHint string) error {
	notePath := reg.cfg.NotePath(row.PaperID)
	created, err := WriteStub(notePath, row.PaperID, row.Year, localHint)
	if err != nil {
		return err
	}
	if err := AppendManifest(reg.cfg.ManifestPath(), row); err != nil {
		if created {
			os.Remove(notePath)
		}
		return err
	}
	return nil
}

// ImportPaper copies the PDF at src into the uploads directory, registers
// it, writes a stub note and merges the extracted PDF metadata into the
// stub. It returns ErrAlreadyRegistered when the derived ID is taken.
func (reg *Registry) ImportPaper(src string, manifest Manifest, w io.Writer) (string, error) {
	if !isPDF(src) {
		return "", fmt.Errorf("%s is not a PDF", src)
	}
	id, year := InferPaperID(src)
	notePath := reg.cfg.NotePath(id)
	if manifest.Has(id) {
		return id, fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	if _, err := os.Stat(notePath); err == nil {
		return id, fmt.Errorf("%w: %s (note exists)", ErrAlreadyRegistered, id)
	}

	dest := filepath.Join(reg.cfg.UploadsDir(), id+".pdf")
	if err := copyFile(src, dest); err != nil {
		return id, fmt.Errorf("copying %s: %w", src, err)
	}
	row := types.ManifestRow{PaperID: id, Year: year, SourcePath: dest}
	if err := reg.register(row, dest); err != nil {
		return id, err
	}
	manifest[id] = row

	if reg.extractor == nil {
		return id, nil
	}
	updates := reg.extractor.Metadata(dest).Updates()
	updates["local_hint"] = dest
	if err := frontmatter.UpdateFile(notePath, updates); err != nil {
		fmt.Fprintf(w, "  warning: metadata update failed for %s: %v\n", id, err)
	}
	return id, nil
}

// Import registers each PDF in paths, printing per-item status and a
// summary. It continues after individual failures.
func (reg *Registry) Import(paths []string, w io.Writer) (Result, error) {
	var result Result
	manifest, err := LoadManifest(reg.cfg.ManifestPath())
	if err != nil {
		return result, err
	}
	for _, p := range paths {
		id, err := reg.ImportPaper(p, manifest, w)
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			fmt.Fprintf(w, "skipped: %s (%s already registered)\n", p, id)
			result.Skipped++
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", p, err)
			result.Failed++
		default:
			fmt.Fprintf(w, "added:   %s\n", id)
			result.Added++
			result.IDs = append(result.IDs, id)
		}
	}
	fmt.Fprintf(w, "\nImport summary: %d added, %d skipped, %d failed (total: %d)\n",
		result.Added, result.Skipped, result.Failed, result.Total())
	return result, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// copyFile copies src to dst through a temporary file in dst's directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".import-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing copy: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
