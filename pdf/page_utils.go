package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseChapterStarts parses a comma-separated list of chapter start pages, e.g. "1,10,20,30".
// A blank list parses to nil; Partition rejects it.
func ParseChapterStarts(pages string) ([]int, error) {
	if strings.TrimSpace(pages) == "" {
		return nil, nil
	}

	parts := strings.Split(pages, PageListSeparator)
	starts := make([]int, 0, len(parts))

	for _, part := range parts {
		// Whitespace around a number is fine, inside it is not: "1 0" is malformed
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty entry in page list %q", ErrInvalidArgument, pages)
		}
		pageNum, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: page list must be comma-separated numbers, got %q", ErrInvalidArgument, part)
		}
		starts = append(starts, pageNum)
	}

	if err := ValidateAscending(starts); err != nil {
		return nil, err
	}

	return starts, nil
}

// ValidateAscending checks that chapter starts are strictly increasing
func ValidateAscending(starts []int) error {
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			return fmt.Errorf("%w: chapter starts must be strictly ascending, got %d after %d",
				ErrInvalidArgument, starts[i], starts[i-1])
		}
	}
	return nil
}

// ValidatePageNumbers checks if all page numbers are valid for a given total number of pages
func ValidatePageNumbers(pages []int, totalPages int) error {
	for _, page := range pages {
		if page < 1 {
			return fmt.Errorf("%w: page numbers must be positive, got %d", ErrInvalidRange, page)
		}
		if page > totalPages {
			return fmt.Errorf("%w: page %d exceeds total pages (%d)", ErrInvalidRange, page, totalPages)
		}
	}
	return nil
}

// FormatPageList is the inverse of ParseChapterStarts
func FormatPageList(pages []int) string {
	pageStrs := make([]string, len(pages))
	for i, p := range pages {
		pageStrs[i] = strconv.Itoa(p)
	}
	return strings.Join(pageStrs, PageListSeparator)
}
