package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/unklstewy/vatsim-online/pkg/config"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("Log line is not JSON: %q", scanner.Text())
		}
		records = append(records, rec)
	}
	return records
}

func TestNew(t *testing.T) {
	t.Run("Writes JSON records to configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "test.slog")
		l, err := New(config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if l.File != path {
			t.Errorf("Expected file %s, got %s", path, l.File)
		}

		l.Info("Cycle complete", "rows", 3)
		l.Debug("Hidden at info level")
		if err := l.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		var found bool
		for _, rec := range readRecords(t, path) {
			if rec["msg"] == "Hidden at info level" {
				t.Error("Debug record written at info level")
			}
			if rec["msg"] == "Cycle complete" {
				found = true
				if rec["rows"] != float64(3) {
					t.Errorf("Expected rows 3, got %v", rec["rows"])
				}
			}
		}
		if !found {
			t.Error("Expected info record in log file")
		}
	})

	t.Run("Debug level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "debug.slog")
		l, err := New(config.LoggingConfig{Level: "debug", File: path})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		l.Debug("Visible at debug level")
		l.Close()

		var found bool
		for _, rec := range readRecords(t, path) {
			if rec["msg"] == "Visible at debug level" {
				found = true
			}
		}
		if !found {
			t.Error("Expected debug record in log file")
		}
	})

	t.Run("Invalid level", func(t *testing.T) {
		_, err := New(config.LoggingConfig{Level: "chatty", File: filepath.Join(t.TempDir(), "x.slog")})
		if err == nil {
			t.Error("Expected error for invalid level")
		}
	})
}

func TestCloseNil(t *testing.T) {
	var l *Logger
	if err := l.Close(); err != nil {
		t.Errorf("Expected nil error closing nil logger, got: %v", err)
	}
}
