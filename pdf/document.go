package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is a parsed PDF held in memory by pdfcpu
type Document struct {
	ctx  *model.Context
	file *os.File // source handle, nil for reader-backed and extracted documents
}

// Open reads and validates the PDF at path. The file stays open until Close.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	doc, err := OpenReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.file = f

	return doc, nil
}

// OpenReader reads and validates a PDF from rs
func OpenReader(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PDF context: %v", ErrUnreadableDocument, err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: validation failed: %v", ErrUnreadableDocument, err)
	}

	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrUnreadableDocument)
	}

	return &Document{ctx: ctx}, nil
}

// PageCount returns the number of pages in the document
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// ExtractRange returns a new document holding pages start..end (1-based, inclusive) in original order
func (d *Document) ExtractRange(start, end int) (*Document, error) {
	r := PageRange{Start: start, End: end}
	if start < 1 || end < start || end > d.PageCount() {
		return nil, fmt.Errorf("%w: cannot extract pages %d-%d from a %d page document",
			ErrInvalidRange, start, end, d.PageCount())
	}

	ctx, err := pdfcpu.ExtractPages(d.ctx, r.Pages(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to extract pages %d-%d: %w", start, end, err)
	}
	// ExtractPages leaves the page count of the new context unset
	ctx.PageCount = r.PageCount()

	return &Document{ctx: ctx}, nil
}

// Write serializes the document to w
func (d *Document) Write(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("%w: failed to write PDF: %v", ErrIO, err)
	}
	return nil
}

// Save writes the document to path, replacing any existing file
func (d *Document) Save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := d.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	return nil
}

// Close releases the source file handle. It is safe to call more than once.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// DisableConfigDir keeps pdfcpu from creating its config directory under the user's home
func DisableConfigDir() {
	api.DisableConfigDir()
}
