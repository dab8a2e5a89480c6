package document

import (
	"bytes"
	"context"
	"errors"
	"io"
)

var (
	// ErrUnsupportedType the document mime type has no parser
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrIsDirectory a directory was given where a document file was expected
	ErrIsDirectory = errors.New("document could not be a directory")
)

// Parser turns raw document bytes into plain text
type Parser interface {
	Parse(context.Context, *bytes.Reader, io.Writer) error
}

// Document is a document text container with metadata
type Document struct {
	Text string
	Meta map[string]string
}

// Name returns the file name the document was loaded from
func (d *Document) Name() string {
	return d.Meta["filename"]
}

// IsEmpty reports whether the document carries no readable text
func (d *Document) IsEmpty() bool {
	return len(bytes.TrimSpace([]byte(d.Text))) == 0
}
