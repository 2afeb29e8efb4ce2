// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/enrich"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill empty note fields from CrossRef using each note's DOI",
	Long: `Enrich looks up every note that has a DOI on CrossRef and fills its
title, authors, venue and year where those keys are empty. Values already
present in a note are never overwritten. Requests are spaced by
enrich.delay and retried with backoff when CrossRef answers 429.

Set enrich.mailto, PAPER_NOTES_MAILTO or .secrets/crossref-email to use
CrossRef's polite pool.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringSlice("paper", nil, "enrich only these paper IDs (repeatable, comma-separated)")
	enrichCmd.Flags().Duration("delay", 0, "delay between lookups (default: enrich.delay)")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		cfg.Enrich.Delay = delay
	}
	papers, _ := cmd.Flags().GetStringSlice("paper")

	e := enrich.New(cfg.Enrich, os.Stderr)
	result, err := e.EnrichAll(cmd.Context(), cfg.Collection.NotesDir, papers, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d note(s) failed enrichment", result.Failed)
	}
	return nil
}
