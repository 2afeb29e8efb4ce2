// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// ManifestHeader is the column order of manifest.csv.
var ManifestHeader = []string{"paper_id", "title", "year", "one_drive_path", "share_link"}

// ManifestRow is one registered paper in the manifest. PaperID is the dedup
// key checked before a row is appended.
type ManifestRow struct {
	PaperID    string `json:"paper_id" yaml:"paper_id"`
	Title      string `json:"title" yaml:"title"`
	Year       string `json:"year" yaml:"year"`
	SourcePath string `json:"one_drive_path" yaml:"one_drive_path"`
	ShareLink  string `json:"share_link" yaml:"share_link"`
}

// Record returns the row in ManifestHeader column order.
func (r ManifestRow) Record() []string {
	return []string{r.PaperID, r.Title, r.Year, r.SourcePath, r.ShareLink}
}

// PaperMetadata is the best-effort metadata scraped from a PDF. Fields the
// extractor could not find are left empty.
type PaperMetadata struct {
	Title    string   `json:"title" yaml:"title"`
	Authors  []string `json:"authors" yaml:"authors"`
	Year     string   `json:"year" yaml:"year"`
	DOI      string   `json:"doi" yaml:"doi"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// IsEmpty reports whether nothing was extracted.
func (m PaperMetadata) IsEmpty() bool {
	return m.Title == "" && len(m.Authors) == 0 && m.Year == "" && m.DOI == "" && len(m.Keywords) == 0
}

// Updates returns the non-empty fields as front-matter updates. Keywords
// are not mapped; tags stay under the user's control.
func (m PaperMetadata) Updates() map[string]any {
	u := make(map[string]any)
	if m.Title != "" {
		u["title"] = m.Title
	}
	if len(m.Authors) > 0 {
		u["authors"] = m.Authors
	}
	if m.Year != "" {
		if y, err := strconv.Atoi(m.Year); err == nil {
			u["year"] = y
		} else {
			u["year"] = m.Year
		}
	}
	if m.DOI != "" {
		u["doi"] = m.DOI
	}
	return u
}
