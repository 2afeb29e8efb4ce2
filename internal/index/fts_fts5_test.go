// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_fts5

package index

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFTSRanksAndHighlights(t *testing.T) {
	store, col := testSetup(t)
	seed(t, store, col)

	results, err := store.Search(context.Background(), QueryOptions{Query: "sparse"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "2021-sparse", results[0].PaperID)
	assert.Contains(t, results[0].Snippet, "**")
}

func TestFTSFollowsUpdates(t *testing.T) {
	store, col := testSetup(t)
	seed(t, store, col)

	path := writeNote(t, col, "2022-graph", noteText("2022-graph", "Graph Nets", 2022, "[graphs]", "Crystal lattices."))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	results, err := store.Search(context.Background(), QueryOptions{Query: "molecules"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.Search(context.Background(), QueryOptions{Query: "lattices"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-graph"}, ids(results))
}
