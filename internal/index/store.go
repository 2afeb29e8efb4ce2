// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps a SQLite index of the note collection for text
// search and bulk export. Ingestion is incremental: a note is re-read only
// when its file modification time changes, and notes whose files vanished
// are dropped.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-notes/internal/note"
	"github.com/pdiddy/paper-notes/pkg/types"
)

const defaultMaxResults = 20

// Store manages the note index database.
type Store struct {
	db         *sql.DB
	dbPath     string
	notesDir   string
	maxResults int
}

// NewStore opens or creates the index database for the collection and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig, col types.CollectionConfig) (*Store, error) {
	dbPath := cfg.Path(col)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	s := &Store{db: db, dbPath: dbPath, notesDir: col.NotesDir, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			path TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			venue TEXT,
			year INTEGER,
			doi TEXT,
			tags TEXT,
			tldr TEXT,
			body TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_paper_id ON notes(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_year ON notes(year)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	if err := initFTS(s.db); err != nil {
		return fmt.Errorf("creating full-text index: %w", err)
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
	Failed  int
}

// Total returns the number of notes examined, removals included.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Removed + s.Failed
}

// Changed reports whether the run modified the index.
func (s IngestSummary) Changed() bool {
	return s.Indexed+s.Updated+s.Removed > 0
}

// Ingest brings the index in line with the notes directory. Unchanged
// notes are skipped, changed notes are re-indexed and notes whose files
// are gone are removed. When anything changed, export.yaml is rewritten
// next to the database.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	paths, err := note.List(s.notesDir)
	if err != nil {
		return summary, err
	}

	known, err := s.statusByPath(ctx)
	if err != nil {
		return summary, err
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		stored, isUpdate := known[path]
		delete(known, path)

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)
		if isUpdate && stored == modTime {
			summary.Skipped++
			continue
		}

		if err := s.indexPath(ctx, path, modTime); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			summary.Failed++
			continue
		}
		if isUpdate {
			fmt.Fprintf(w, "updated: %s\n", path)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed: %s\n", path)
			summary.Indexed++
		}
	}

	for path := range known {
		if err := s.RemoveFile(ctx, path); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "removed: %s\n", path)
		summary.Removed++
	}

	fmt.Fprintf(w, "\nIndex summary: %d indexed, %d updated, %d skipped, %d removed, %d failed\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed, summary.Failed)

	if summary.Changed() {
		if err := s.ExportFile(ctx, QueryOptions{}, filepath.Join(filepath.Dir(s.dbPath), "export.yaml")); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

func (s *Store) statusByPath(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, file_mod_time FROM indexing_status`)
	if err != nil {
		return nil, fmt.Errorf("reading indexing status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path string
		var mod sql.NullString
		if err := rows.Scan(&path, &mod); err != nil {
			return nil, fmt.Errorf("scanning indexing status: %w", err)
		}
		out[path] = mod.String
	}
	return out, rows.Err()
}

// IndexFile re-indexes the note at path regardless of its modification time.
func (s *Store) IndexFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat note %s: %w", path, err)
	}
	return s.indexPath(ctx, path, info.ModTime().UTC().Format(time.RFC3339Nano))
}

func (s *Store) indexPath(ctx context.Context, path, modTime string) error {
	n, err := note.Load(path)
	if err != nil {
		return err
	}

	id := n.PaperID()
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	authorsJSON, _ := json.Marshal(nonNil(n.Meta.Strings("authors")))
	tags := nonNil(n.Meta.Strings("tags"))
	tagsJSON, _ := json.Marshal(tags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notes (path, paper_id, title, authors, venue, year, doi, tags, tldr, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			paper_id=excluded.paper_id, title=excluded.title, authors=excluded.authors,
			venue=excluded.venue, year=excluded.year, doi=excluded.doi, tags=excluded.tags,
			tldr=excluded.tldr, body=excluded.body`,
		path, id, n.Title(), string(authorsJSON), n.Meta.String("venue"), n.Meta.Int("year"),
		n.Meta.String("doi"), string(tagsJSON), strings.Join(n.TLDR, "\n"), n.Body,
	)
	if err != nil {
		return fmt.Errorf("upserting note: %w", err)
	}
	if err := ftsUpsert(ctx, tx, path, n.Title(), n.Body, tags); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (path, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		path, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}
	return tx.Commit()
}

// RemoveFile drops the note at path from the index. Removing an unknown
// path is not an error.
func (s *Store) RemoveFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if err := ftsDelete(ctx, tx, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM indexing_status WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting indexing status: %w", err)
	}
	return tx.Commit()
}

// Count returns the number of indexed notes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting notes: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
