package api

import "time"

const (
	// FileCleanupDelay is the delay before cleaning up temp files after response is sent
	FileCleanupDelay = 2 * time.Second

	// DefaultFilePermissions for temp directory creation
	DefaultFilePermissions = 0755

	// ErrorMessageLimit truncates error messages returned to clients
	ErrorMessageLimit = 200

	// MultipartOverhead allows for form fields and part headers on top of MaxFileSize
	MultipartOverhead = 64 * 1024

	// ServiceName is reported by the health endpoint
	ServiceName = "pdf-split"
)
