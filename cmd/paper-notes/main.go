// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-notes CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-notes/internal/secrets"
	"github.com/pdiddy/paper-notes/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paper-notes CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-notes",
	Short: "Manage research-paper notes and compile literature reviews",
	Long: `paper-notes keeps one markdown note per paper, registers PDFs from a
source tree or by import, and compiles filtered notes into a literature
review document.

Notes live in the notes directory, the manifest, uploaded PDFs and the
search index live in the data directory, and compiled reviews are written
to the reviews directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paper-notes.yaml or ~/.config/paper-notes/config.yaml)")
	pf.String("notes-dir", "", "directory holding one <paper_id>.md note per paper")
	pf.String("reviews-dir", "", "directory compiled reviews are written to")
	pf.String("data-dir", "", "directory holding manifest.csv, uploads/ and index/")
	pf.String("papers-root", "", "PDF source tree; also resolves relative local_hint paths")
	pf.String("pdf-backend", "", "PDF reader: native, markitdown or none")

	viper.BindPFlag("collection.notes_dir", pf.Lookup("notes-dir"))
	viper.BindPFlag("collection.reviews_dir", pf.Lookup("reviews-dir"))
	viper.BindPFlag("collection.data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("collection.papers_root", pf.Lookup("papers-root"))
	viper.BindPFlag("pdf.backend", pf.Lookup("pdf-backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-notes")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-notes"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("PAPER_NOTES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("collection.papers_root", "PAPER_NOTES_PAPERS_ROOT", "ONEDRIVE_PAPERS_ROOT")
	viper.BindEnv("enrich.mailto", "PAPER_NOTES_MAILTO")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so AutomaticEnv and
// Unmarshal see them even when no config file sets them.
func setDefaults(d types.Config) {
	viper.SetDefault("collection.notes_dir", d.Collection.NotesDir)
	viper.SetDefault("collection.reviews_dir", d.Collection.ReviewsDir)
	viper.SetDefault("collection.data_dir", d.Collection.DataDir)
	viper.SetDefault("collection.papers_root", d.Collection.PapersRoot)
	viper.SetDefault("pdf.backend", string(d.PDF.Backend))
	viper.SetDefault("pdf.abstract_pages", d.PDF.AbstractPages)
	viper.SetDefault("enrich.timeout", d.Enrich.Timeout)
	viper.SetDefault("enrich.user_agent", d.Enrich.UserAgent)
	viper.SetDefault("enrich.mailto", d.Enrich.Mailto)
	viper.SetDefault("enrich.max_retries", d.Enrich.MaxRetries)
	viper.SetDefault("enrich.delay", d.Enrich.Delay)
	viper.SetDefault("index.db_path", d.Index.DBPath)
	viper.SetDefault("index.max_results", d.Index.MaxResults)
}

// loadConfig resolves the effective configuration from defaults, config
// file, environment and flags, fills unset values from secrets and
// validates the result.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(&cfg, loadedSecrets)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
