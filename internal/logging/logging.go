// Package logging sets up the structured log file. The terminal belongs to
// the renderer, so nothing is ever logged to stdout or stderr.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/unklstewy/vatsim-online/pkg/config"
)

// DefaultFileName is used when no log file is configured.
const DefaultFileName = "vatsim-online.slog"

// Logger is a slog.Logger writing JSON records to a rotated file.
type Logger struct {
	*slog.Logger
	File string

	w *lumberjack.Logger
}

// New opens the log file described by cfg.
func New(cfg config.LoggingConfig) (*Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	file := cfg.File
	if file == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		file = filepath.Join(dir, "vatsim-online", DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	l := &Logger{
		Logger: slog.New(h),
		File:   file,
		w:      w,
	}

	l.Info("Hello logging", slog.Time("start", time.Now()))
	l.Info("System information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))
	if bi, ok := debug.ReadBuildInfo(); ok {
		l.Debug("Build",
			slog.String("Go version", bi.GoVersion),
			slog.String("Path", bi.Path),
			slog.String("Version", bi.Main.Version))
	}

	return l, nil
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
