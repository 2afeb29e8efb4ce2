// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich fills empty note metadata from the CrossRef works API
// using each note's DOI. Values the user already entered are never
// overwritten.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/internal/httputil"
	"github.com/pdiddy/paper-notes/internal/note"
	"github.com/pdiddy/paper-notes/pkg/types"
)

// crossrefAPIBase is a var so tests can point it at an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works/"

// Work is the subset of a CrossRef work record copied into notes.
type Work struct {
	DOI     string
	Title   string
	Authors []string
	Venue   string
	Year    int
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	ContainerTitle []string         `json:"container-title"`
	Author         []crossrefAuthor `json:"author"`
	Issued         crossrefDate     `json:"issued"`
	Created        crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossrefDate) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

// Enricher looks up DOIs and merges the results into notes.
type Enricher struct {
	client *httputil.Client
	cfg    types.EnrichConfig
}

// New returns an Enricher. Retry messages are written to log when non-nil.
func New(cfg types.EnrichConfig, log io.Writer) *Enricher {
	c := httputil.NewClient(cfg.Timeout, cfg.UserAgent, cfg.MaxRetries)
	c.Log = log
	return &Enricher{client: c, cfg: cfg}
}

// NormalizeDOI strips resolver prefixes and surrounding whitespace.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return strings.TrimSpace(doi[len(prefix):])
		}
	}
	return doi
}

// escapeDOI percent-encodes each "/"-separated part of doi so characters
// such as '#', '?' and '%' stay in the request path.
func escapeDOI(doi string) string {
	parts := strings.Split(doi, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Lookup fetches the CrossRef record for doi.
func (e *Enricher) Lookup(ctx context.Context, doi string) (Work, error) {
	apiURL := crossrefAPIBase + escapeDOI(NormalizeDOI(doi))
	if e.cfg.Mailto != "" {
		apiURL += "?mailto=" + url.QueryEscape(e.cfg.Mailto)
	}

	var cr crossrefResponse
	if err := e.client.GetJSON(ctx, apiURL, &cr); err != nil {
		return Work{}, fmt.Errorf("CrossRef lookup %s: %w", doi, err)
	}

	m := cr.Message
	w := Work{DOI: m.DOI, Year: m.Issued.year()}
	if w.Year == 0 {
		w.Year = m.Created.year()
	}
	if len(m.Title) > 0 {
		w.Title = strings.Join(strings.Fields(m.Title[0]), " ")
	}
	if len(m.ContainerTitle) > 0 {
		w.Venue = m.ContainerTitle[0]
	}
	for _, a := range m.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name != "" {
			w.Authors = append(w.Authors, name)
		}
	}
	return w, nil
}

// Updates returns the fields of w destined for keys that are empty in meta.
func Updates(meta *frontmatter.Map, w Work) map[string]any {
	u := make(map[string]any)
	if w.Title != "" && isEmpty(meta, "title") {
		u["title"] = w.Title
	}
	if len(w.Authors) > 0 && isEmpty(meta, "authors") {
		u["authors"] = w.Authors
	}
	if w.Venue != "" && isEmpty(meta, "venue") {
		u["venue"] = w.Venue
	}
	if w.Year > 0 && isEmpty(meta, "year") {
		u["year"] = w.Year
	}
	return u
}

func isEmpty(meta *frontmatter.Map, key string) bool {
	v, ok := meta.Get(key)
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case []string:
		return len(t) == 0
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// EnrichNote looks up the DOI of the note at path and writes any filled
// keys back. It returns the keys it set; none when the note has no DOI.
func (e *Enricher) EnrichNote(ctx context.Context, path string) ([]string, error) {
	n, err := note.Load(path)
	if err != nil {
		return nil, err
	}
	doi := n.Meta.String("doi")
	if strings.TrimSpace(doi) == "" {
		return nil, nil
	}
	w, err := e.Lookup(ctx, doi)
	if err != nil {
		return nil, err
	}
	updates := Updates(n.Meta, w)
	if len(updates) == 0 {
		return nil, nil
	}
	if err := frontmatter.UpdateFile(path, updates); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(updates))
	for _, k := range frontmatter.PreferredOrder {
		if _, ok := updates[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Result holds the outcome of an enrichment run.
type Result struct {
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of notes processed.
func (r Result) Total() int {
	return r.Updated + r.Skipped + r.Failed
}

// HasFailures reports whether any lookup failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// EnrichAll enriches the notes in notesDir, or only those whose paper ID is
// in paperIDs when it is non-empty. Lookups are spaced by the configured
// delay; a cancelled context stops the run early.
func (e *Enricher) EnrichAll(ctx context.Context, notesDir string, paperIDs []string, w io.Writer) (Result, error) {
	var result Result
	notes, err := note.LoadAll(notesDir)
	if err != nil {
		return result, err
	}
	want := make(map[string]bool, len(paperIDs))
	for _, id := range paperIDs {
		want[id] = true
	}

	looked := 0
	for _, n := range notes {
		id := n.PaperID()
		if len(want) > 0 && !want[id] {
			continue
		}
		if strings.TrimSpace(n.Meta.String("doi")) == "" {
			fmt.Fprintf(w, "skipped: %s (no DOI)\n", id)
			result.Skipped++
			continue
		}
		if looked > 0 && e.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(e.cfg.Delay):
			}
		}
		looked++

		keys, err := e.EnrichNote(ctx, n.Path)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
		case len(keys) == 0:
			fmt.Fprintf(w, "skipped: %s (nothing to fill)\n", id)
			result.Skipped++
		default:
			fmt.Fprintf(w, "updated: %s (%s)\n", id, strings.Join(keys, ", "))
			result.Updated++
		}
	}
	fmt.Fprintf(w, "\nEnrich summary: %d updated, %d skipped, %d failed (total: %d)\n",
		result.Updated, result.Skipped, result.Failed, result.Total())
	return result, nil
}
