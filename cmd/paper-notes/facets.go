// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/note"
)

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "List the tags and years used across the notes",
	RunE:  runFacets,
}

func init() {
	facetsCmd.Flags().Bool("json", false, "output facets as JSON")

	rootCmd.AddCommand(facetsCmd)
}

func runFacets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	facets, err := note.CollectFacets(cfg.Collection.NotesDir)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(facets)
	}
	fmt.Printf("Tags:  %s\n", strings.Join(facets.Tags, ", "))
	years := make([]string, len(facets.Years))
	for i, y := range facets.Years {
		years[i] = cast.ToString(y)
	}
	fmt.Printf("Years: %s\n", strings.Join(years, ", "))
	return nil
}
