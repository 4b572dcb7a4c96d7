package pdf

import "errors"

// Error kinds returned by this package. Call sites wrap them with context,
// so compare with errors.Is.
var (
	// ErrInvalidArgument reports a malformed or non-ascending page list
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRange reports chapter starts outside the document or an empty chapter list
	ErrInvalidRange = errors.New("invalid page range")

	// ErrUnreadableDocument reports a missing or corrupt source PDF
	ErrUnreadableDocument = errors.New("unreadable document")

	// ErrIO reports a failure to create or write an output file
	ErrIO = errors.New("i/o error")
)
