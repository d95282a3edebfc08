// Package document reads résumés and job descriptions into plain text.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for extensions the reader cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoText is returned when a document parses but holds no extractable text.
	ErrNoText = errors.New("no text content found")
)

// Document is the text extracted from one file.
type Document struct {
	Path string
	Text string
}

// Name returns the file name without directories.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Reader extracts text from files based on their extension.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Read returns the document text. Word-processor paragraphs are joined with a
// newline. Failures are reported through the error only, never as text.
func (r *Reader) Read(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		text string
		err  error
	)

	switch ext {
	case ".docx":
		text, err = readDocx(path)
	case ".pdf":
		text, err = readPDF(path)
	case ".html", ".htm":
		text, err = readHTML(path)
	case ".txt", ".md":
		text, err = readPlain(path)
	default:
		return nil, fmt.Errorf("reading %q: %w: %s", path, ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	return &Document{Path: path, Text: text}, nil
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
