// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/paper-notes/pkg/types"
)

// Manifest is the set of registered papers keyed by paper ID.
type Manifest map[string]types.ManifestRow

// Has reports whether id is registered.
func (m Manifest) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// LoadManifest reads the manifest CSV at path. A missing file is an empty
// manifest. Columns are matched by header name so extra or reordered
// columns are tolerated; rows without a paper_id are ignored.
func LoadManifest(path string) (Manifest, error) {
	m := make(Manifest)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	field := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		row := types.ManifestRow{
			PaperID:    field(rec, "paper_id"),
			Title:      field(rec, "title"),
			Year:       field(rec, "year"),
			SourcePath: field(rec, "one_drive_path"),
			ShareLink:  field(rec, "share_link"),
		}
		if row.PaperID == "" {
			continue
		}
		m[row.PaperID] = row
	}
	return m, nil
}

// AppendManifest appends row to the manifest at path, writing the header
// first when the file does not exist yet.
func AppendManifest(path string, row types.ManifestRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	w := csv.NewWriter(f)
	if created {
		w.Write(types.ManifestHeader)
	}
	w.Write(row.Record())
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing manifest row %s: %w", row.PaperID, err)
	}
	return f.Close()
}
