// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_fts5

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			path UNINDEXED,
			title,
			body,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		)`)
	return err
}

func ftsUpsert(ctx context.Context, tx *sql.Tx, path, title, body string, tags []string) error {
	if err := ftsDelete(ctx, tx, path); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO notes_fts (path, title, body, tags) VALUES (?, ?, ?, ?)`,
		path, title, body, strings.Join(tags, " "))
	if err != nil {
		return fmt.Errorf("upserting full-text row: %w", err)
	}
	return nil
}

func ftsDelete(ctx context.Context, tx *sql.Tx, path string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM notes_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting full-text row: %w", err)
	}
	return nil
}

// textMatch returns the SQL fragments for a ranked FTS5 match on query.
func textMatch(query string) matchClause {
	return matchClause{
		join:    `JOIN notes_fts ON notes_fts.path = n.path`,
		where:   `notes_fts MATCH ?`,
		args:    []any{query},
		order:   `notes_fts.rank`,
		snippet: `snippet(notes_fts, 2, '**', '**', '...', 24)`,
	}
}
