// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/registry"
)

var importCmd = &cobra.Command{
	Use:   "import PDF...",
	Short: "Copy PDFs into the collection and create their notes",
	Long: `Import copies each PDF into data/uploads/<paper_id>.pdf, appends a
manifest row, writes a note stub and fills the stub's front matter with
metadata read from the PDF. Papers already in the manifest or already
having a note are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractor, err := pdfExtractor(cfg)
	if err != nil {
		return err
	}

	result, err := registry.New(cfg.Collection, extractor).Import(args, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed import", result.Failed)
	}
	return nil
}
