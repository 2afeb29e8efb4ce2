// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/registry"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Register PDFs found under the papers root",
	Long: `Sync walks the papers root (or --root) for PDF files, derives a paper ID
from each file name, and registers every ID not yet in the manifest: one
manifest row plus a note stub. Existing notes are never overwritten, so
re-running sync over an unchanged tree registers nothing.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("root", "", "PDF source tree (default: papers root from config)")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		root = cfg.Collection.PapersRoot
	}
	if root == "" {
		return fmt.Errorf("no papers root: pass --root or set PAPER_NOTES_PAPERS_ROOT")
	}

	result, err := registry.New(cfg.Collection, nil).Sync(root, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed registration", result.Failed)
	}
	return nil
}
