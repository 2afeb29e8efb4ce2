// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for index searches.
type QueryOptions struct {
	// Query is the text to search for. Empty lists every note that passes
	// the filters.
	Query string

	// Tags keeps notes carrying any of these tags, case-insensitively.
	Tags []string

	// Year keeps notes from this year. Zero means any year.
	Year int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Result is one indexed note matching a query.
type Result struct {
	PaperID string   `json:"paper_id" yaml:"paper_id"`
	Path    string   `json:"path" yaml:"path"`
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Venue   string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	DOI     string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	Tags    []string `json:"tags" yaml:"tags"`
	Snippet string   `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// matchClause carries the backend-specific SQL for a text query.
type matchClause struct {
	join    string
	where   string
	args    []any
	order   string
	snippet string
}

// Search queries the index. Text queries are ranked by relevance when
// full-text search is compiled in; filter-only queries are ordered by
// paper ID.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	m := matchClause{order: `n.paper_id`, snippet: `substr(n.tldr, 1, 200)`}
	if strings.TrimSpace(opts.Query) != "" {
		m = textMatch(opts.Query)
	}

	var (
		qb   strings.Builder
		args []any
	)
	fmt.Fprintf(&qb, `SELECT n.paper_id, n.path, n.title, n.authors, n.venue, n.year, n.doi, n.tags, %s
		FROM notes n %s
		WHERE 1=1`, m.snippet, m.join)
	if m.where != "" {
		qb.WriteString(` AND ` + m.where)
		args = append(args, m.args...)
	}
	if opts.Year != 0 {
		qb.WriteString(` AND n.year = ?`)
		args = append(args, opts.Year)
	}
	if len(opts.Tags) > 0 {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(n.tags) WHERE lower(value) IN (`)
		for i, t := range opts.Tags {
			if i > 0 {
				qb.WriteString(`, `)
			}
			qb.WriteString(`?`)
			args = append(args, strings.ToLower(t))
		}
		qb.WriteString(`))`)
	}
	qb.WriteString(` ORDER BY ` + m.order + ` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r                     Result
			title, venue, doi     sql.NullString
			authorsJSON, tagsJSON sql.NullString
			snippet               sql.NullString
			year                  sql.NullInt64
		)
		if err := rows.Scan(&r.PaperID, &r.Path, &title, &authorsJSON, &venue, &year, &doi, &tagsJSON, &snippet); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Title, r.Venue, r.DOI, r.Snippet = title.String, venue.String, doi.String, snippet.String
		r.Year = int(year.Int64)
		r.Authors = decodeList(authorsJSON)
		r.Tags = decodeList(tagsJSON)
		results = append(results, r)
	}
	return results, rows.Err()
}

func decodeList(s sql.NullString) []string {
	out := []string{}
	if s.Valid {
		json.Unmarshal([]byte(s.String), &out)
	}
	return out
}
