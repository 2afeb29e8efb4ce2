// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/bibtex"
	"github.com/pdiddy/paper-notes/internal/frontmatter"
	"github.com/pdiddy/paper-notes/internal/note"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Inspect and update individual notes",
}

var noteShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a note's front matter and TL;DR",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteSetCmd = &cobra.Command{
	Use:   "set ID key=value...",
	Short: "Merge values into a note's front matter",
	Long: `Set overwrites the given front-matter keys and keeps every other key.
Values use the note syntax: [a, b] for lists, quotes for literal strings,
bare numbers and booleans. The header is rewritten in the standard key
order; the body is left untouched.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runNoteSet,
}

var noteBibtexCmd = &cobra.Command{
	Use:   "bibtex ID",
	Short: "Generate a BibTeX entry from a note's front matter",
	Long: `Bibtex prints an @article or @inproceedings entry built from the
note's title, authors, venue, year and DOI. With --write, a note whose
BibTeX block is still the empty stub gets the generated entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runNoteBibtex,
}

func init() {
	noteBibtexCmd.Flags().Bool("write", false, "fill the note's placeholder BibTeX block")

	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteSetCmd)
	noteCmd.AddCommand(noteBibtexCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, err := note.Find(cfg.Collection.NotesDir, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s\n", n.Path, frontmatter.Render(n.Meta))
	if len(n.TLDR) > 0 {
		fmt.Println("TL;DR:")
		for _, b := range n.TLDR {
			fmt.Printf("  - %s\n", b)
		}
	}
	return nil
}

func runNoteSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	updates, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}
	n, err := note.Find(cfg.Collection.NotesDir, args[0])
	if err != nil {
		return err
	}
	if err := frontmatter.UpdateFile(n.Path, updates); err != nil {
		return err
	}
	fmt.Printf("updated: %s (%d keys)\n", n.Path, len(updates))
	return nil
}

func runNoteBibtex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, err := note.Find(cfg.Collection.NotesDir, args[0])
	if err != nil {
		return err
	}

	if write, _ := cmd.Flags().GetBool("write"); write {
		filled, err := bibtex.FillNote(n.Path)
		if err != nil {
			return err
		}
		if filled {
			fmt.Printf("updated: %s\n", n.Path)
		} else {
			fmt.Fprintf(os.Stderr, "skipped: %s (BibTeX block already filled or missing)\n", n.Path)
		}
		return nil
	}
	fmt.Println(bibtex.Generate(n.Meta))
	return nil
}

// parseAssignments turns key=value arguments into front-matter updates.
func parseAssignments(args []string) (map[string]any, error) {
	updates := make(map[string]any, len(args))
	for _, a := range args {
		key, val, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: want key=value", a)
		}
		updates[key] = frontmatter.ParseValue(strings.TrimSpace(val))
	}
	return updates, nil
}
