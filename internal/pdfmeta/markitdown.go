// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfmeta

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const markitdownImage = "markitdown:latest"

// engine describes a container CLI. Docker and Podman differ only in the
// binary name and the image-existence subcommand.
type engine struct {
	bin        string
	imageCheck []string
}

var engines = []engine{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

// commandRunner abstracts process execution for testing.
type commandRunner interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type execRunner struct{}

func (execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (execRunner) Run(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// MarkitdownReader extracts PDF text by piping the file through the
// markitdown container image. It exposes no information dictionary and
// presents the whole document as a single page.
type MarkitdownReader struct {
	bin    string
	runner commandRunner
}

// NewMarkitdownReader picks docker, then podman, and verifies the
// markitdown image exists locally.
func NewMarkitdownReader() (*MarkitdownReader, error) {
	return newMarkitdownReader(execRunner{})
}

func newMarkitdownReader(runner commandRunner) (*MarkitdownReader, error) {
	for _, e := range engines {
		if _, err := runner.LookPath(e.bin); err != nil {
			continue
		}
		if err := runner.Run(e.bin, []string{"info"}, nil, io.Discard); err != nil {
			continue
		}
		args := append(append([]string{}, e.imageCheck...), markitdownImage)
		if err := runner.Run(e.bin, args, nil, io.Discard); err != nil {
			return nil, fmt.Errorf("image %s not found in %s: %w", markitdownImage, e.bin, err)
		}
		return &MarkitdownReader{bin: e.bin, runner: runner}, nil
	}
	return nil, fmt.Errorf("%w: neither docker nor podman found or operational", ErrUnavailable)
}

// Engine returns the container binary in use.
func (m *MarkitdownReader) Engine() string { return m.bin }

// Open converts the PDF at path to text.
func (m *MarkitdownReader) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runner.Run(m.bin, []string{"run", "--rm", "-i", markitdownImage}, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("markitdown produced empty output for %s", path)
	}
	return textDocument(out.String()), nil
}

// textDocument is a single-page document backed by already extracted text.
type textDocument string

func (d textDocument) Info() Info    { return Info{} }
func (d textDocument) NumPages() int { return 1 }
func (d textDocument) Close() error  { return nil }

func (d textDocument) PageText(i int) (string, error) {
	if i != 0 {
		return "", fmt.Errorf("page %d out of range", i)
	}
	return string(d), nil
}
