package pdf

const (
	// ChapterFileExt is appended to every chapter file name
	ChapterFileExt = ".pdf"

	// ChapterIndexWidth is the minimum zero-padded width of the chapter index
	ChapterIndexWidth = 2

	// OpenEndToken replaces the end page in the final chapter's file name
	OpenEndToken = "end"

	// DefaultDirPermissions for output directory creation
	DefaultDirPermissions = 0755

	// PageListSeparator separates chapter start pages on the command line
	PageListSeparator = ","
)
