package pdf

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// PageRange is one output chapter: pages Start..End, 1-based and inclusive
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Index int `json:"index"` // 1-based chapter number

	// Final marks the chapter that runs to the end of the document
	Final bool `json:"final"`
}

// PageCount returns the number of pages in the range
func (r PageRange) PageCount() int {
	return r.End - r.Start + 1
}

// Pages lists every page number in the range
func (r PageRange) Pages() []int {
	pages := make([]int, 0, r.PageCount())
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Label returns the zero-padded chapter index, e.g. "03"
func (r PageRange) Label() string {
	return fmt.Sprintf("%0*d", ChapterIndexWidth, r.Index)
}

// Partition computes contiguous chapter ranges covering pages 1..totalPages.
//
// Each start opens a chapter that runs until the page before the next start;
// the last one runs to totalPages. If the first start is not 1, page 1 is
// implied and an extra leading chapter is produced.
func Partition(totalPages int, starts []int) ([]PageRange, error) {
	if totalPages < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidRange)
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("%w: chapter list is empty", ErrInvalidRange)
	}
	if err := ValidatePageNumbers(starts, totalPages); err != nil {
		return nil, err
	}
	if err := ValidateAscending(starts); err != nil {
		return nil, err
	}

	normalized := make([]int, 0, len(starts)+1)
	if starts[0] != 1 {
		normalized = append(normalized, 1)
	}
	normalized = append(normalized, starts...)

	ranges := make([]PageRange, len(normalized))
	for i, start := range normalized {
		r := PageRange{Start: start, Index: i + 1}
		if i+1 < len(normalized) {
			r.End = normalized[i+1] - 1
		} else {
			r.End = totalPages
			r.Final = true
		}
		ranges[i] = r
	}

	return ranges, nil
}

// ChapterName derives the output file name for a chapter of the given document base name.
// Only the final chapter uses the open-ended "end" token, even when it spans a single page.
func ChapterName(base string, r PageRange) string {
	end := strconv.Itoa(r.End)
	if r.Final {
		end = OpenEndToken
	}
	return fmt.Sprintf("%s_chapter%s_p%d-%s%s", base, r.Label(), r.Start, end, ChapterFileExt)
}

// BaseName strips the directory and the last extension from a path: "in/book.pdf" -> "book"
func BaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "document"
	}
	return name
}
