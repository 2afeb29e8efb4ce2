// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfmeta

import (
	"fmt"

	"github.com/pdiddy/paper-notes/pkg/types"
)

// NewReader returns the reader for backend. An unknown backend is an error;
// a markitdown backend without a usable container engine is also an error
// so the caller can decide whether to fall back to NopReader.
func NewReader(backend types.PDFBackend) (Reader, error) {
	switch backend {
	case types.PDFNative, "":
		return NativeReader{}, nil
	case types.PDFMarkitdown:
		return NewMarkitdownReader()
	case types.PDFNone:
		return NopReader{}, nil
	default:
		return nil, fmt.Errorf("unknown PDF backend %q: use native, markitdown, or none", backend)
	}
}
