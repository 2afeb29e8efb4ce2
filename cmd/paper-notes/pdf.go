// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/pdfmeta"
	"github.com/pdiddy/paper-notes/pkg/types"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Read metadata and abstracts from PDF files",
	Long: `Pdf inspects a PDF with the configured reader (native, markitdown or
none). Extraction is best effort: unreadable files yield empty fields.`,
}

var pdfMetaCmd = &cobra.Command{
	Use:   "meta PDF",
	Short: "Print title, authors, year, DOI and keywords as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPDFMeta,
}

var pdfAbstractCmd = &cobra.Command{
	Use:   "abstract PDF",
	Short: "Print the abstract-like passage from the first pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runPDFAbstract,
}

func init() {
	pdfAbstractCmd.Flags().Int("pages", 0, "pages to scan (default: pdf.abstract_pages)")

	pdfCmd.AddCommand(pdfMetaCmd)
	pdfCmd.AddCommand(pdfAbstractCmd)
	rootCmd.AddCommand(pdfCmd)
}

func runPDFMeta(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractor, err := pdfExtractor(cfg)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(extractor.Metadata(args[0]))
}

func runPDFAbstract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractor, err := pdfExtractor(cfg)
	if err != nil {
		return err
	}
	pages, _ := cmd.Flags().GetInt("pages")
	if pages <= 0 {
		pages = cfg.PDF.AbstractPages
	}
	abstract := extractor.Abstract(args[0], pages)
	if abstract == "" {
		return fmt.Errorf("no abstract found in %s", args[0])
	}
	fmt.Println(abstract)
	return nil
}

// --- shared helpers ---

// pdfExtractor builds the extractor for the configured backend. A
// markitdown backend without a usable container engine degrades to the
// no-op reader with a warning.
func pdfExtractor(cfg types.Config) (*pdfmeta.Extractor, error) {
	reader, err := pdfmeta.NewReader(cfg.PDF.Backend)
	if err != nil {
		if cfg.PDF.Backend == types.PDFMarkitdown {
			fmt.Fprintf(os.Stderr, "warning: %v; PDF metadata disabled\n", err)
			return pdfmeta.NewExtractor(pdfmeta.NopReader{}), nil
		}
		return nil, err
	}
	return pdfmeta.NewExtractor(reader), nil
}
