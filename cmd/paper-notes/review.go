// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Compile matching notes into a literature review",
	Long: `Review selects notes by tag (any of), year and paper ID, and renders a
markdown review: an overview table, one section per paper and a combined
BibTeX block. With --abstract, abstracts are read from each paper's local
PDF, or from the file given with --upload id=path.

The review is written to reviews/review-<tags>-<year>.md unless --output or
--stdout is given. When nothing matches, nothing is written.`,
	RunE: runReview,
}

func init() {
	f := reviewCmd.Flags()
	f.String("title", review.DefaultTitle, "review title")
	addFilterFlags(reviewCmd)
	f.Bool("abstract", false, "include abstracts extracted from local PDFs")
	f.StringToString("upload", nil, "PDF to read a paper's abstract from, as id=path (repeatable)")
	f.String("output", "", "output file (default: reviews/review-<tags>-<year>.md)")
	f.String("csl", "", "also write a CSL-YAML bibliography of the selected papers to this file")
	f.Bool("stdout", false, "print the review instead of writing a file")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filter := filterFromFlags(cmd)
	title, _ := cmd.Flags().GetString("title")
	includeAbstract, _ := cmd.Flags().GetBool("abstract")
	uploads, _ := cmd.Flags().GetStringToString("upload")

	var abstracts review.AbstractExtractor
	if includeAbstract {
		extractor, err := pdfExtractor(cfg)
		if err != nil {
			return err
		}
		abstracts = extractor
	}

	compiler := review.NewCompiler(cfg.Collection, abstracts, cfg.PDF.AbstractPages)
	text, items, err := compiler.Compile(review.Request{
		Title:           title,
		Filter:          filter,
		IncludeAbstract: includeAbstract,
		Overrides:       uploads,
	})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "No matching notes.")
		return nil
	}

	if cslPath, _ := cmd.Flags().GetString("csl"); cslPath != "" {
		if err := writeCSLFile(cslPath, items); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", cslPath)
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		fmt.Print(text)
		return nil
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = review.DefaultOutputPath(cfg.Collection.ReviewsDir, filter)
	}
	if err := review.WriteFile(out, text); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d papers)\n", out, len(items))
	return nil
}

func writeCSLFile(path string, items []review.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSL file: %w", err)
	}
	if err := review.WriteCSL(items, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- shared helpers ---

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("tag", nil, "keep notes with any of these tags (repeatable, comma-separated)")
	cmd.Flags().Int("year", 0, "keep notes from this year")
	cmd.Flags().StringSlice("paper", nil, "keep only these paper IDs (repeatable, comma-separated)")
}

func filterFromFlags(cmd *cobra.Command) review.Filter {
	tags, _ := cmd.Flags().GetStringSlice("tag")
	year, _ := cmd.Flags().GetInt("year")
	papers, _ := cmd.Flags().GetStringSlice("paper")
	return review.Filter{Tags: tags, Year: year, PaperIDs: papers}
}
