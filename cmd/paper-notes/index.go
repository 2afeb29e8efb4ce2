// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-notes/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the note search index (build, search, export, watch)",
	Long: `Index keeps a SQLite index of the notes under data/index/notes.db.
Builds are incremental: unchanged notes are skipped and notes whose files
were deleted are dropped. Binaries built with the sqlite_fts5 tag rank text
searches with FTS5; others fall back to substring matching.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Index new and changed notes",
	RunE:  runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d note(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed notes by text, tag and year",
	RunE:  runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.Query == "" && len(opts.Tags) == 0 && opts.Year == 0 {
		return fmt.Errorf("query or filter required: provide a search query, --tag, or --year")
	}
	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-28s  %-44s  %-4s  %s\n", "Rank", "Paper", "Title", "Year", "Tags")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-28s  %-44s  %-4s  %s\n",
			i+1, truncate(r.PaperID, 28), truncate(r.Title, 44), yearString(r.Year), strings.Join(r.Tags, ", "))
		if r.Snippet != "" {
			fmt.Fprintf(os.Stdout, "      %s\n", truncate(strings.Join(strings.Fields(r.Snippet), " "), 94))
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed notes to YAML or JSON",
	Long: `Export writes the indexed notes (or a filtered subset) to
data/index/export.<format>, or to --output.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	if format != string(index.FormatYAML) && format != string(index.FormatJSON) {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = filepath.Join(filepath.Dir(store.Path()), "export."+format)
	}

	opts := queryOptsFromFlags(cmd, args)
	if err := store.ExportFile(cmd.Context(), opts, out); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}

// --- watch subcommand ---

var indexWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index in sync with the notes directory",
	Long: `Watch indexes the notes once, then re-indexes each note as it is
created, changed or deleted until interrupted.`,
	RunE: runIndexWatch,
}

func runIndexWatch(cmd *cobra.Command, args []string) error {
	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return store.Watch(ctx, logger, nil)
}

// --- shared helpers ---

func openIndex() (*index.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return index.NewStore(cfg.Index, cfg.Collection)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	tags, _ := cmd.Flags().GetStringSlice("tag")
	year, _ := cmd.Flags().GetInt("year")
	limit, _ := cmd.Flags().GetInt("limit")
	return index.QueryOptions{
		Query:      strings.Join(args, " "),
		Tags:       tags,
		Year:       year,
		MaxResults: limit,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func yearString(y int) string {
	if y == 0 {
		return ""
	}
	return fmt.Sprint(y)
}

func init() {
	for _, c := range []*cobra.Command{indexSearchCmd, indexExportCmd} {
		c.Flags().StringSlice("tag", nil, "keep notes with any of these tags")
		c.Flags().Int("year", 0, "keep notes from this year")
	}
	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use index.max_results)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("output", "", "output file (default: next to the index database)")

	indexWatchCmd.Flags().Bool("verbose", false, "log every re-indexed note")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)
	indexCmd.AddCommand(indexWatchCmd)
	rootCmd.AddCommand(indexCmd)
}
