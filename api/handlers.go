package api

import (
	"archive/zip"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	pdfPkg "pdf-split/pdf"

	"github.com/gin-gonic/gin"
)

// splitUpload is a validated split form: the uploaded PDF and its chapter starts
type splitUpload struct {
	file     multipart.File
	filename string
	starts   []int
}

// HandlePlan reports the chapters a split would produce without writing them
func HandlePlan(c *gin.Context, config *Config) {
	upload, ok := readSplitUpload(c, config)
	if !ok {
		return
	}
	defer upload.file.Close()

	doc, err := pdfPkg.OpenReader(upload.file)
	if err != nil {
		respondError(c, config, err)
		return
	}

	chapters, err := pdfPkg.Plan(doc.PageCount(), upload.starts, upload.filename)
	if err != nil {
		respondError(c, config, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_pages": doc.PageCount(),
		"chapters":    chapters,
	})
}

// HandleSplit splits the uploaded PDF and returns the chapters as a zip archive
func HandleSplit(c *gin.Context, config *Config) {
	upload, ok := readSplitUpload(c, config)
	if !ok {
		return
	}
	defer upload.file.Close()

	doc, err := pdfPkg.OpenReader(upload.file)
	if err != nil {
		respondError(c, config, err)
		return
	}

	// Validate every chapter before anything is written
	chapters, err := pdfPkg.Plan(doc.PageCount(), upload.starts, upload.filename)
	if err != nil {
		respondError(c, config, err)
		return
	}

	if err := ensureTempDir(config.TempDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}

	uniqueID := generateUniqueID()
	outFile := filepath.Join(config.TempDir, "split_"+uniqueID+".zip")

	if err := writeChapterArchive(c, config, doc, chapters, outFile); err != nil {
		os.Remove(outFile) // Clean up partial archive
		respondError(c, config, err)
		return
	}

	filename := sanitizeFilename(pdfPkg.BaseName(upload.filename) + "_chapters.zip")
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	c.File(outFile)

	// Clean up after the response is sent
	go func() {
		time.Sleep(FileCleanupDelay)
		os.Remove(outFile)
	}()
}

func writeChapterArchive(c *gin.Context, config *Config, doc *pdfPkg.Document, chapters []pdfPkg.Chapter, outFile string) error {
	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("%w: failed to create archive: %v", pdfPkg.ErrIO, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	splitter := pdfPkg.NewSplitter(config.Logger)
	if err := splitter.Export(c.Request.Context(), doc, chapters, zipSink{zw: zw}); err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: failed to finish archive: %v", pdfPkg.ErrIO, err)
	}
	return nil
}

// zipSink writes each chapter as an entry of a zip archive
type zipSink struct {
	zw *zip.Writer
}

func (s zipSink) Create(name string) (io.WriteCloser, error) {
	w, err := s.zw.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdfPkg.ErrIO, err)
	}
	return nopWriteCloser{w}, nil
}

func (s zipSink) Location(name string) string {
	return "zip:" + name
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// readSplitUpload reads the "pdf" file and "pages" fields, responding with 400 on failure
func readSplitUpload(c *gin.Context, config *Config) (*splitUpload, bool) {
	// Reject oversized bodies before the multipart form is read
	bodyLimit := config.MaxFileSize + MultipartOverhead
	if c.Request.ContentLength > bodyLimit {
		respondTooLarge(c, config.MaxFileSize)
		return nil, false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondTooLarge(c, config.MaxFileSize)
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return nil, false
	}

	pagesParam := c.PostForm("pages")
	if strings.TrimSpace(pagesParam) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pages specified"})
		return nil, false
	}

	starts, err := pdfPkg.ParseChapterStarts(pagesParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return nil, false
	}

	// Validate PDF file
	if err := validatePDFFile(file, header, config.MaxFileSize); err != nil {
		file.Close()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	return &splitUpload{
		file:     file,
		filename: sanitizeFilename(header.Filename),
		starts:   starts,
	}, true
}

func respondTooLarge(c *gin.Context, maxSize int64) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": fmt.Sprintf("request exceeds maximum allowed file size of %d bytes", maxSize),
	})
}

// respondError maps pdf package errors to HTTP status codes
func respondError(c *gin.Context, config *Config, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pdfPkg.ErrInvalidArgument), errors.Is(err, pdfPkg.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, pdfPkg.ErrUnreadableDocument):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		config.Logger.WithError(err).Error("PDF operation error")
	}
	c.Error(err)

	// Truncate long error messages but include key info
	errorMsg := err.Error()
	if len(errorMsg) > ErrorMessageLimit {
		errorMsg = errorMsg[:ErrorMessageLimit] + "..."
	}
	c.JSON(status, gin.H{"error": errorMsg})
}

// ensureTempDir creates the temp directory if it doesn't exist
func ensureTempDir(tempDir string) error {
	return os.MkdirAll(tempDir, DefaultFilePermissions)
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	// Remove directory separators and path traversal attempts
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)

	if filename == "" || filename == "." {
		filename = "document.pdf"
	}

	return filename
}

// generateUniqueID generates a unique identifier for temp files
func generateUniqueID() string {
	// Use timestamp + random bytes for uniqueness
	b := make([]byte, 8)
	rand.Read(b)
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("%d_%s", timestamp, hex.EncodeToString(b))
}

// validatePDFFile checks the upload size and the %PDF header
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	buffer := make([]byte, 4)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %v", err)
	}

	if n < 4 || string(buffer[:4]) != "%PDF" {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	// Seek back to beginning for subsequent reads
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file position: %v", err)
	}

	return nil
}
