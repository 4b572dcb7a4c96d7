package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SplitRequest describes one split of InputPath into chapters under OutputDir
type SplitRequest struct {
	InputPath string
	OutputDir string
	Starts    []int
}

// Validate checks the request fields that can be checked without opening the document
func (r SplitRequest) Validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidArgument)
	}
	if r.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidArgument)
	}
	if len(r.Starts) == 0 {
		return fmt.Errorf("%w: chapter list is empty", ErrInvalidRange)
	}
	return ValidateAscending(r.Starts)
}

// Chapter is a page range together with its output file name
type Chapter struct {
	PageRange
	Name string `json:"name"`
}

// Plan partitions a document of totalPages and names every chapter after inputName
func Plan(totalPages int, starts []int, inputName string) ([]Chapter, error) {
	ranges, err := Partition(totalPages, starts)
	if err != nil {
		return nil, err
	}

	base := BaseName(inputName)
	chapters := make([]Chapter, len(ranges))
	for i, r := range ranges {
		chapters[i] = Chapter{PageRange: r, Name: ChapterName(base, r)}
	}
	return chapters, nil
}

// Sink receives chapter files
type Sink interface {
	// Create opens the named chapter for writing
	Create(name string) (io.WriteCloser, error)
	// Location describes where the named chapter ends up, for reporting
	Location(name string) string
}

// DirSink writes chapters as files in Dir, overwriting existing ones
type DirSink struct {
	Dir string
}

func (s DirSink) Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(s.Location(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return f, nil
}

func (s DirSink) Location(name string) string {
	return filepath.Join(s.Dir, name)
}

// Splitter exports chapters of a document
type Splitter struct {
	logger *logrus.Logger

	// OnChapter, if set, is called after each chapter is written
	OnChapter func(ch Chapter, location string)
}

// NewSplitter returns a Splitter logging to logger, or to the standard logger if nil
func NewSplitter(logger *logrus.Logger) *Splitter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Splitter{logger: logger}
}

// Split validates req, then writes every chapter of the input into the output directory.
// Nothing is written unless the whole chapter list is valid for the document.
// A failure part way leaves already written chapters in place.
func (s *Splitter) Split(ctx context.Context, req SplitRequest) ([]Chapter, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := Open(req.InputPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	s.logger.WithFields(logrus.Fields{
		"input":       req.InputPath,
		"total_pages": doc.PageCount(),
		"starts":      FormatPageList(req.Starts),
	}).Debug("Opened source document")

	chapters, err := Plan(doc.PageCount(), req.Starts, req.InputPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutputDir, DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %v", ErrIO, err)
	}

	if err := s.Export(ctx, doc, chapters, DirSink{Dir: req.OutputDir}); err != nil {
		return nil, err
	}

	return chapters, nil
}

// Export writes chapters of doc into sink one at a time, in index order.
// It stops before the next chapter once ctx is done.
func (s *Splitter) Export(ctx context.Context, doc *Document, chapters []Chapter, sink Sink) error {
	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.exportChapter(doc, ch, sink); err != nil {
			return fmt.Errorf("chapter %s (pages %d-%d): %w", ch.Label(), ch.Start, ch.End, err)
		}

		location := sink.Location(ch.Name)
		s.logger.WithFields(logrus.Fields{
			"chapter": ch.Index,
			"start":   ch.Start,
			"end":     ch.End,
			"path":    location,
		}).Debug("Chapter written")

		if s.OnChapter != nil {
			s.OnChapter(ch, location)
		}
	}
	return nil
}

func (s *Splitter) exportChapter(doc *Document, ch Chapter, sink Sink) error {
	part, err := doc.ExtractRange(ch.Start, ch.End)
	if err != nil {
		return err
	}

	w, err := sink.Create(ch.Name)
	if err != nil {
		return err
	}

	if err := part.Write(w); err != nil {
		w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
