// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfmeta

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// NativeReader reads PDFs in-process with github.com/ledongthuc/pdf.
type NativeReader struct{}

// Open parses the PDF at path.
func (NativeReader) Open(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &nativeDocument{file: f, reader: r}, nil
}

type nativeDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *nativeDocument) Info() Info {
	info := d.reader.Trailer().Key("Info")
	if info.IsNull() {
		return Info{}
	}
	return Info{
		Title:        info.Key("Title").Text(),
		Author:       info.Key("Author").Text(),
		Subject:      info.Key("Subject").Text(),
		Keywords:     info.Key("Keywords").Text(),
		CreationDate: info.Key("CreationDate").Text(),
	}
}

func (d *nativeDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *nativeDocument) PageText(i int) (string, error) {
	if i < 0 || i >= d.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range", i)
	}
	page := d.reader.Page(i + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d missing", i)
	}
	return page.GetPlainText(nil)
}

func (d *nativeDocument) Close() error {
	return d.file.Close()
}
