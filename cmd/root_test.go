package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pdf-split/pdf"
	"pdf-split/pdf/pdftest"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pdf.DisableConfigDir()
	os.Exit(m.Run())
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.WriteFile(t, dir, "book.pdf", 8)
	outDir := filepath.Join(dir, "chapters")

	stdout, _, err := runRoot(t, "-i", input, "-o", outDir, "-p", "1,3,7")
	require.NoError(t, err)

	for _, name := range []string{
		"book_chapter01_p1-2.pdf",
		"book_chapter02_p3-6.pdf",
		"book_chapter03_p7-end.pdf",
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	assert.Contains(t, stdout, "Created: "+filepath.Join(outDir, "book_chapter01_p1-2.pdf")+" (pages 1-2)\n")
	assert.Contains(t, stdout, "Created: "+filepath.Join(outDir, "book_chapter03_p7-end.pdf")+" (pages 7-8)\n")
	assert.Contains(t, stdout, "Split complete: 3 file(s) created")
}

func TestSplitCommand_LongFlags(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.WriteFile(t, dir, "doc.pdf", 2)
	outDir := filepath.Join(dir, "out")

	_, _, err := runRoot(t, "--input", input, "--output", outDir, "--pages", "1")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "doc_chapter01_p1-end.pdf"))
}

func TestSplitCommand_Verbose(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.WriteFile(t, dir, "doc.pdf", 2)

	_, stderr, err := runRoot(t, "-v", "-i", input, "-o", filepath.Join(dir, "out"), "-p", "1,2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Chapter written")
}

func TestSplitCommand_MissingFlags(t *testing.T) {
	_, _, err := runRoot(t, "-i", "in.pdf", "-o", "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pages")
}

func TestSplitCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.WriteFile(t, dir, "doc.pdf", 5)

	tests := []struct {
		name  string
		input string
		pages string
		want  error
	}{
		{"non-integer", input, "1,two", pdf.ErrInvalidArgument},
		{"not ascending", input, "3,2", pdf.ErrInvalidArgument},
		{"beyond document", input, "1,9", pdf.ErrInvalidRange},
		{"empty list", input, " ", pdf.ErrInvalidRange},
		{"missing input", filepath.Join(dir, "missing.pdf"), "1", pdf.ErrUnreadableDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "out")
			_, _, err := runRoot(t, "-i", tt.input, "-o", outDir, "-p", tt.pages)
			assert.ErrorIs(t, err, tt.want)
			assert.NoDirExists(t, outDir)
		})
	}
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, 0, exitCode(&stderr, nil))
	assert.Empty(t, stderr.String())

	assert.Equal(t, ExitFailure, exitCode(&stderr, pdf.ErrInvalidRange))
	assert.Equal(t, "Error: invalid page range\n", stderr.String())

	stderr.Reset()
	wrapped := errors.Join(errors.New("chapter 02"), context.Canceled)
	assert.Equal(t, ExitInterrupted, exitCode(&stderr, wrapped))
	assert.Contains(t, stderr.String(), "Interrupted")
}

func TestLoadServeConfig(t *testing.T) {
	t.Setenv("PORT", "9099")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("TEMP_DIR", "/tmp/pdf-split")
	t.Setenv("LOG_LEVEL", "debug")

	config := loadServeConfig()
	assert.Equal(t, "9099", config.Port)
	assert.Equal(t, int64(2048), config.MaxFileSize)
	assert.Equal(t, "/tmp/pdf-split", config.TempDir)
	assert.Equal(t, logrus.DebugLevel, config.Logger.GetLevel())
}

func TestLoadServeConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("TEMP_DIR", "")
	t.Setenv("LOG_LEVEL", "loud")

	config := loadServeConfig()
	assert.Equal(t, DefaultPort, config.Port)
	assert.Equal(t, int64(DefaultMaxFileSize), config.MaxFileSize)
	assert.Equal(t, DefaultTempDir, config.TempDir)
	assert.Equal(t, DefaultLogLevel, config.Logger.GetLevel())
}

func TestServeCommand_Shutdown(t *testing.T) {
	t.Setenv("PORT", "0")
	t.Setenv("TEMP_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "panic")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := NewRootCmd()
	root.SetArgs([]string{"serve"})
	assert.NoError(t, root.ExecuteContext(ctx))
}

func TestServeConfig_EnvReadAtRunTime(t *testing.T) {
	root := NewRootCmd()
	serveCmd, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	// Environment changes after the command tree is built still apply
	t.Setenv("PORT", "7001")
	t.Setenv("MAX_FILE_SIZE", "4096")
	t.Setenv("TEMP_DIR", "/from/env")
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, serveCmd.ParseFlags([]string{"--temp-dir", "/from/flag"}))

	config := resolveServeConfig(serveCmd, serveOptionsOf(t, serveCmd))
	assert.Equal(t, "7001", config.Port)
	assert.Equal(t, int64(4096), config.MaxFileSize)
	assert.Equal(t, "/from/flag", config.TempDir)
	assert.Equal(t, logrus.WarnLevel, config.Logger.GetLevel())
}

// serveOptionsOf reads the parsed serve flags back into options
func serveOptionsOf(t *testing.T, serveCmd *cobra.Command) *serveOptions {
	t.Helper()
	flags := serveCmd.Flags()
	port, err := flags.GetString("port")
	require.NoError(t, err)
	maxFileSize, err := flags.GetInt64("max-file-size")
	require.NoError(t, err)
	tempDir, err := flags.GetString("temp-dir")
	require.NoError(t, err)
	return &serveOptions{port: port, maxFileSize: maxFileSize, tempDir: tempDir}
}

func TestSplitCommand_ImpliedFirstChapter(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.WriteFile(t, dir, "doc.pdf", 5)
	outDir := filepath.Join(dir, "out")

	_, _, err := runRoot(t, "-i", input, "-o", outDir, "-p", "3")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "doc_chapter01_p1-2.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "doc_chapter02_p3-end.pdf"))
}

func TestHelpDescribesImpliedFirstChapter(t *testing.T) {
	stdout, _, err := runRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pages before it become an extra first chapter")
}
