// Package cmd implements the pdf-split command line using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pdf-split/pdf"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	// ExitFailure is returned for validation and I/O errors
	ExitFailure = 1

	// ExitInterrupted is returned when SIGINT or SIGTERM stops a split
	ExitInterrupted = 130
)

type splitOptions struct {
	input   string
	output  string
	pages   string
	verbose bool
}

// NewRootCmd builds the pdf-split command with its subcommands
func NewRootCmd() *cobra.Command {
	opts := &splitOptions{}

	rootCmd := &cobra.Command{
		Use:   "pdf-split",
		Short: "Split a PDF into chapters by start page numbers",
		Long: `pdf-split copies contiguous page ranges of a PDF into one file per chapter.
Each page number passed with --pages starts a new chapter; the last chapter
runs to the end of the document. Page 1 always starts chapter 01: when the
first number is greater than 1, pages before it become an extra first chapter.`,
		Example: `  pdf-split -i input.pdf -o output/ -p 1,10,20,30
  pdf-split --input book.pdf --output chapters/ --pages 1,50,100`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runSplit(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "input PDF file path")
	flags.StringVarP(&opts.output, "output", "o", "", "output directory path (created if absent)")
	flags.StringVarP(&opts.pages, "pages", "p", "", "chapter start page numbers, comma-separated (e.g. 1,10,20,30)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every step to stderr")
	for _, name := range []string{"input", "output", "pages"} {
		rootCmd.MarkFlagRequired(name)
	}
	flags.SetAnnotation("input", cobra.BashCompFilenameExt, []string{"pdf"})
	flags.SetAnnotation("output", cobra.BashCompSubdirsInDir, []string{})

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pdf.DisableConfigDir()

	err := NewRootCmd().ExecuteContext(ctx)
	return exitCode(os.Stderr, err)
}

func exitCode(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "\nInterrupted")
		return ExitInterrupted
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
}

func runSplit(ctx context.Context, stdout, stderr io.Writer, opts *splitOptions) error {
	logger := newLogger(stderr, logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	starts, err := pdf.ParseChapterStarts(opts.pages)
	if err != nil {
		return err
	}

	splitter := pdf.NewSplitter(logger)
	splitter.OnChapter = func(ch pdf.Chapter, location string) {
		fmt.Fprintf(stdout, "Created: %s (pages %d-%d)\n", location, ch.Start, ch.End)
	}

	chapters, err := splitter.Split(ctx, pdf.SplitRequest{
		InputPath: opts.input,
		OutputDir: opts.output,
		Starts:    starts,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nSplit complete: %d file(s) created\n", len(chapters))
	return nil
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger
}
