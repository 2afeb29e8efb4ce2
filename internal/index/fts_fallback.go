// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !sqlite_fts5

package index

import (
	"context"
	"database/sql"
	"strings"
)

// Without FTS5 the notes table itself is searched with LIKE.

func initFTS(_ *sql.DB) error { return nil }

func ftsUpsert(_ context.Context, _ *sql.Tx, _, _, _ string, _ []string) error { return nil }

func ftsDelete(_ context.Context, _ *sql.Tx, _ string) error { return nil }

func textMatch(query string) matchClause {
	like := "%" + escapeLike(query) + "%"
	return matchClause{
		where:   `(n.title LIKE ? ESCAPE '\' OR n.body LIKE ? ESCAPE '\' OR n.tags LIKE ? ESCAPE '\')`,
		args:    []any{like, like, like},
		order:   `n.paper_id`,
		snippet: `substr(n.tldr, 1, 200)`,
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
