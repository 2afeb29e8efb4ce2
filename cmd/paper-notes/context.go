// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/review"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Assemble weighted note context for an external prompt",
	Long: `Context gathers the notes matching the filters, orders them by weight
(--weight id=w, default 1), keeps the top k and clips each to a fixed length.
The result is printed as "# [id] (w=x)" blocks separated by "---". With
--prompt the blocks are appended to the prompt text under a heading.

No model is called; pipe the output to the tool of your choice.`,
	RunE: runContext,
}

func init() {
	addFilterFlags(contextCmd)
	contextCmd.Flags().StringToString("weight", nil, "weight for a paper, as id=w (repeatable)")
	contextCmd.Flags().Int("top-k", review.DefaultTopK, "number of documents to keep")
	contextCmd.Flags().Int("chars", review.DefaultPerDocChars, "maximum characters per document")
	contextCmd.Flags().String("prompt", "", "prompt text to prepend")

	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetStringToString("weight")
	weights := make(map[string]float64, len(raw))
	for id, w := range raw {
		v, err := cast.ToFloat64E(w)
		if err != nil {
			return fmt.Errorf("invalid weight for %s: %w", id, err)
		}
		weights[id] = v
	}
	topK, _ := cmd.Flags().GetInt("top-k")
	chars, _ := cmd.Flags().GetInt("chars")
	prompt, _ := cmd.Flags().GetString("prompt")

	extractor, err := pdfExtractor(cfg)
	if err != nil {
		return err
	}
	compiler := review.NewCompiler(cfg.Collection, extractor, cfg.PDF.AbstractPages)
	docs, err := compiler.ContextDocs(filterFromFlags(cmd), weights)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, "No matching notes.")
		return nil
	}

	ctx := review.BuildContext(docs, topK, chars)
	if prompt != "" {
		fmt.Println(review.RenderPrompt(prompt, ctx, topK))
		return nil
	}
	fmt.Println(ctx)
	return nil
}
