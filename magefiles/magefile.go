//go:build mage

// Package main contains Mage build targets for paper-notes developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// collectionDirs lists the working directories a note collection expects.
var collectionDirs = []string{
	"notes",
	"reviews",
	"data/uploads",
	"data/index",
	".secrets",
}

// Init creates the collection directory structure.
func Init() error {
	for _, dir := range collectionDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Collection directories initialized.")
	return nil
}

const (
	binDir   = "bin"
	binName  = "paper-notes"
	cmdPkg   = "./cmd/paper-notes"
	ftsTag   = "sqlite_fts5"
	ldflagsV = "-X main.version="
)

// Build compiles the CLI binary into bin/ with FTS5 search enabled.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	v := os.Getenv("VERSION")
	if v == "" {
		v = "dev"
	}
	if err := sh.RunV("go", "build", "-tags", ftsTag, "-ldflags", ldflagsV+v, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with and without FTS5.
func Test() error {
	if err := sh.RunV("go", "test", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "test", "-tags", ftsTag, "./internal/index/...")
}

// Sync registers new PDFs from the configured papers root.
func Sync() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "sync")
}

// Index brings the note search index up to date.
func Index() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "index", "build")
}

// Review compiles a review of the notes tagged tag.
func Review(tag string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "review", "--tag", tag)
}

// Stats prints project metrics: Go production/test lines, note count and
// note word count.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	notes, noteWords, err := countNotes("notes")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Notes:                          %d\n", notes)
	fmt.Printf("Words (notes):                  %d\n", noteWords)
	return nil
}

// countGoLines counts non-blank lines in Go files under root, skipping
// hidden and underscore-prefixed directories. testOnly selects _test.go
// files; otherwise only non-test files are counted.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				total++
			}
		}
		return nil
	})
	return total, err
}

// countNotes walks the notes directory and counts .md files and their words.
func countNotes(root string) (int, int, error) {
	notes, words := 0, 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		notes++
		words += countWords(data)
		return nil
	})
	return notes, words, err
}

// countWords counts whitespace-separated tokens in data.
func countWords(data []byte) int {
	return len(bytes.Fields(data))
}
