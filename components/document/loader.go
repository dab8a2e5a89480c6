package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Loader reads a document file and converts it to text with the parser matching its mime type
type Loader struct {
	pdf *PDFParser
}

type LoaderOption func(*Loader)

// WithPDFPassword sets the password used for encrypted PDF files
func WithPDFPassword(password string) LoaderOption {
	return func(l *Loader) {
		l.pdf = NewPDFParser(PDFParserWithPassword(password))
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	ret := &Loader{pdf: NewPDFParser()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Load reads fname. A missing file returns an error matching os.ErrNotExist.
func (l *Loader) Load(ctx context.Context, fname string) (*Document, error) {
	info, err := os.Stat(fname)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", fname, ErrIsDirectory)
	}
	bs, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	mime := mimetype.Detect(bs)
	parser, err := l.parserFor(mime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	buf := new(bytes.Buffer)
	if err := parser.Parse(ctx, bytes.NewReader(bs), buf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fname, err)
	}
	return &Document{
		Text: buf.String(),
		Meta: map[string]string{
			"filename": filepath.Base(fname),
			"mimetype": mime.String(),
			"modtime":  strconv.FormatInt(info.ModTime().Unix(), 10),
		},
	}, nil
}

func (l *Loader) parserFor(mime *mimetype.MIME) (Parser, error) {
	if mime.Is("application/pdf") {
		return l.pdf, nil
	}
	for m := mime; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return new(TextParser), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
}
