// Package logger provides the structured logger used by both solver
// cores for per-iteration and per-phase diagnostics.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the package-level default logger. It is initialized to a
// stdout JSON logger so callers that never invoke Init still get
// usable output.
var Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Config configures the logger.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, stderr, file
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init initializes the package logger at the given level, JSON to stdout.
func Init(level string) {
	InitWithConfig(Config{
		Level:  level,
		Format: "json",
		Output: "stdout",
	})
}

// InitWithConfig initializes the package logger from a full Config.
func InitWithConfig(cfg Config) {
	var lvl slog.Level
	switch cfg.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var writer io.Writer
	switch cfg.Output {
	case "stderr":
		writer = os.Stderr
	case "file":
		if cfg.FilePath == "" {
			cfg.FilePath = "logs/solver.log"
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			writer = os.Stdout
		} else {
			writer = &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
		}
	default:
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	Log = slog.New(handler)
}

// WithCore returns a logger tagged with the solver core's name
// ("coloring" or "dualmcf"), for per-call-site attribution.
func WithCore(core string) *slog.Logger {
	return Log.With("core", core)
}

// Debug logs a debug message on the package logger.
func Debug(msg string, args ...any) { Log.Debug(msg, args...) }

// Info logs an info message on the package logger.
func Info(msg string, args ...any) { Log.Info(msg, args...) }

// Warn logs a warning message on the package logger.
func Warn(msg string, args ...any) { Log.Warn(msg, args...) }

// Error logs an error message on the package logger.
func Error(msg string, args ...any) { Log.Error(msg, args...) }
