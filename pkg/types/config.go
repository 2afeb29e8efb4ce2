// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	manifestFile = "manifest.csv"
	uploadsDir   = "uploads"
	indexDir     = "index"
	indexDBFile  = "notes.db"
)

// CollectionConfig locates one note collection on disk. Every component
// receives it explicitly so several collections can coexist in one process.
type CollectionConfig struct {
	// NotesDir holds one <paper_id>.md note per paper.
	NotesDir string `json:"notes_dir" yaml:"notes_dir" mapstructure:"notes_dir"`

	// ReviewsDir is the default destination for compiled reviews.
	ReviewsDir string `json:"reviews_dir" yaml:"reviews_dir" mapstructure:"reviews_dir"`

	// DataDir contains manifest.csv, uploads/ and index/.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// PapersRoot is the source tree scanned by sync and the base directory
	// for resolving relative local_hint paths. Empty means "no local root".
	PapersRoot string `json:"papers_root,omitempty" yaml:"papers_root,omitempty" mapstructure:"papers_root"`
}

// ManifestPath returns the path of the paper manifest.
func (c CollectionConfig) ManifestPath() string {
	return filepath.Join(c.DataDir, manifestFile)
}

// UploadsDir returns the directory imported PDFs are copied into.
func (c CollectionConfig) UploadsDir() string {
	return filepath.Join(c.DataDir, uploadsDir)
}

// NotePath returns the note file path for a paper ID.
func (c CollectionConfig) NotePath(paperID string) string {
	return filepath.Join(c.NotesDir, paperID+".md")
}

// Validate checks that the collection directories are set.
func (c CollectionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.NotesDir, validation.Required),
		validation.Field(&c.ReviewsDir, validation.Required),
		validation.Field(&c.DataDir, validation.Required),
	)
}

// PDFBackend identifies how PDFs are read.
type PDFBackend string

const (
	PDFNative     PDFBackend = "native"
	PDFMarkitdown PDFBackend = "markitdown"
	PDFNone       PDFBackend = "none"
)

// PDFConfig holds settings for PDF metadata and abstract extraction.
type PDFConfig struct {
	// Backend selects the PDF reader: native, markitdown, or none.
	Backend PDFBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// AbstractPages is how many leading pages are scanned for an abstract (default 2).
	AbstractPages int `json:"abstract_pages" yaml:"abstract_pages" mapstructure:"abstract_pages"`
}

// Validate checks the backend name and page limit.
func (c PDFConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(PDFNative, PDFMarkitdown, PDFNone)),
		validation.Field(&c.AbstractPages, validation.Min(1)),
	)
}

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// EnrichConfig holds settings for DOI metadata enrichment.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Mailto is sent to CrossRef to use its polite pool. Optional.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`

	// MaxRetries is the number of retries on HTTP 429 or 503 (default 5).
	// Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Delay is the pause between consecutive lookups (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Validate checks the HTTP settings.
func (c EnrichConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Required),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	)
}

// IndexConfig holds settings for the SQLite note index.
type IndexConfig struct {
	// DBPath is the index database file. Empty means <data>/index/notes.db.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Path returns the database path, defaulting under the collection data dir.
func (c IndexConfig) Path(col CollectionConfig) string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(col.DataDir, indexDir, indexDBFile)
}

// Validate checks the result limit.
func (c IndexConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxResults, validation.Min(1)),
	)
}

// Config groups every section of the paper-notes configuration.
type Config struct {
	Collection CollectionConfig `json:"collection" yaml:"collection" mapstructure:"collection"`
	PDF        PDFConfig        `json:"pdf" yaml:"pdf" mapstructure:"pdf"`
	Enrich     EnrichConfig     `json:"enrich" yaml:"enrich" mapstructure:"enrich"`
	Index      IndexConfig      `json:"index" yaml:"index" mapstructure:"index"`
}

// Validate validates each section in turn.
func (c *Config) Validate() error {
	if err := c.Collection.Validate(); err != nil {
		return err
	}
	if err := c.PDF.Validate(); err != nil {
		return err
	}
	if err := c.Enrich.Validate(); err != nil {
		return err
	}
	return c.Index.Validate()
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Collection: CollectionConfig{
			NotesDir:   "notes",
			ReviewsDir: "reviews",
			DataDir:    "data",
		},
		PDF: PDFConfig{
			Backend:       PDFNative,
			AbstractPages: 2,
		},
		Enrich: EnrichConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "paper-notes/0.1",
			},
			MaxRetries: 5,
			Delay:      time.Second,
		},
		Index: IndexConfig{
			MaxResults: 20,
		},
	}
}
