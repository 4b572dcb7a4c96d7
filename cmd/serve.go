package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"pdf-split/api"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// DefaultTempDir is the default temporary directory
	DefaultTempDir = "./temp"

	// DefaultLogLevel is used when LOG_LEVEL is unset or invalid
	DefaultLogLevel = logrus.InfoLevel

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

type serveOptions struct {
	port        string
	maxFileSize int64
	tempDir     string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the split operation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runServer(cmd.Context(), resolveServeConfig(cmd, opts))
		},
	}

	flags := serveCmd.Flags()
	flags.StringVar(&opts.port, "port", DefaultPort, "listen port (env PORT)")
	flags.Int64Var(&opts.maxFileSize, "max-file-size", DefaultMaxFileSize, "maximum upload size in bytes (env MAX_FILE_SIZE)")
	flags.StringVar(&opts.tempDir, "temp-dir", DefaultTempDir, "directory for temporary archives (env TEMP_DIR)")

	return serveCmd
}

// resolveServeConfig loads the environment, then applies flags set on the command line
func resolveServeConfig(cmd *cobra.Command, opts *serveOptions) *api.Config {
	config := loadServeConfig()

	flags := cmd.Flags()
	if flags.Changed("port") {
		config.Port = opts.port
	}
	if flags.Changed("max-file-size") {
		config.MaxFileSize = opts.maxFileSize
	}
	if flags.Changed("temp-dir") {
		config.TempDir = opts.tempDir
	}
	return config
}

// loadServeConfig reads server settings from the environment
func loadServeConfig() *api.Config {
	logger := newLogger(os.Stderr, getEnvLogLevel("LOG_LEVEL", DefaultLogLevel))

	return &api.Config{
		Port:        getEnv("PORT", DefaultPort),
		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		TempDir:     getEnv("TEMP_DIR", DefaultTempDir),
		Logger:      logger,
	}
}

func runServer(ctx context.Context, config *api.Config) error {
	logger := config.Logger
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      api.NewRouter(config),
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":          srv.Addr,
			"max_file_size": config.MaxFileSize,
			"temp_dir":      config.TempDir,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvLogLevel(key string, defaultValue logrus.Level) logrus.Level {
	if value := os.Getenv(key); value != "" {
		if level, err := logrus.ParseLevel(value); err == nil {
			return level
		}
	}
	return defaultValue
}
