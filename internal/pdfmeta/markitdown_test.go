// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfmeta

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner records calls and returns configured responses.
type mockRunner struct {
	bins     map[string]bool // binary -> LookPath succeeds
	runnable map[string]bool // "bin arg1 arg2" -> Run succeeds
	convert  func(stdin io.Reader, stdout io.Writer) error
}

func (m *mockRunner) LookPath(file string) (string, error) {
	if m.bins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockRunner) Run(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 0 && args[0] == "run" && m.convert != nil {
		return m.convert(stdin, stdout)
	}
	key := name + " " + strings.Join(args, " ")
	if m.runnable[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func TestNewMarkitdownReader(t *testing.T) {
	tests := []struct {
		name       string
		runner     *mockRunner
		wantEngine string
		wantErr    bool
	}{
		{
			name: "docker available",
			runner: &mockRunner{
				bins:     map[string]bool{"docker": true},
				runnable: map[string]bool{"docker info": true, "docker image inspect markitdown:latest": true},
			},
			wantEngine: "docker",
		},
		{
			name: "podman fallback when docker info fails",
			runner: &mockRunner{
				bins:     map[string]bool{"docker": true, "podman": true},
				runnable: map[string]bool{"podman info": true, "podman image exists markitdown:latest": true},
			},
			wantEngine: "podman",
		},
		{
			name: "image missing",
			runner: &mockRunner{
				bins:     map[string]bool{"docker": true},
				runnable: map[string]bool{"docker info": true},
			},
			wantErr: true,
		},
		{
			name:    "no engine",
			runner:  &mockRunner{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newMarkitdownReader(tt.runner)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEngine, r.Engine())
		})
	}
}

func TestNewMarkitdownReader_NoEngineIsUnavailable(t *testing.T) {
	_, err := newMarkitdownReader(&mockRunner{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMarkitdownReader_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

	runner := &mockRunner{
		bins:     map[string]bool{"docker": true},
		runnable: map[string]bool{"docker info": true, "docker image inspect markitdown:latest": true},
		convert: func(stdin io.Reader, stdout io.Writer) error {
			in, _ := io.ReadAll(stdin)
			_, err := io.WriteString(stdout, "# Sparse Attention at Scale\n\nconverted "+string(in))
			return err
		},
	}
	r, err := newMarkitdownReader(runner)
	require.NoError(t, err)

	doc, err := r.Open(path)
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, 1, doc.NumPages())
	assert.Equal(t, Info{}, doc.Info())
	text, err := doc.PageText(0)
	require.NoError(t, err)
	assert.Contains(t, text, "converted %PDF-1.4 fake")
	_, err = doc.PageText(1)
	assert.Error(t, err)

	meta := NewExtractor(r).Metadata(path)
	assert.Equal(t, "# Sparse Attention at Scale", meta.Title)
}

func TestMarkitdownReader_EmptyOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r := &MarkitdownReader{bin: "docker", runner: &mockRunner{
		convert: func(io.Reader, io.Writer) error { return nil },
	}}
	_, err := r.Open(path)
	assert.Error(t, err)
}
