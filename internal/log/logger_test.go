package log

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"translit/internal/config"
	"translit/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doneResult() *pipeline.Result {
	return &pipeline.Result{
		InputPath:   "in.txt",
		OutputPath:  "out.txt",
		InputBytes:  22,
		Runes:       12,
		Mapped:      9,
		Dropped:     0,
		OutputBytes: 12,
		Written:     true,
		State:       pipeline.StateDone,
	}
}

func failedResult() *pipeline.Result {
	return &pipeline.Result{
		InputPath:  "missing.txt",
		OutputPath: "out.txt",
		State:      pipeline.StateFailed,
		FailedIn:   pipeline.StateReading,
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.Config
		expectError bool
		toFile      bool
	}{
		{
			name:        "logger with console",
			config:      &config.Config{},
			expectError: false,
		},
		{
			name: "logger with file",
			config: &config.Config{
				LogFile: filepath.Join(t.TempDir(), "report.json"),
				DryRun:  true,
			},
			expectError: false,
			toFile:      true,
		},
		{
			name: "logger with invalid file path",
			config: &config.Config{
				LogFile: filepath.Join(t.TempDir(), "no", "such", "dir", "report.json"),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config, io.Discard, discardLogger())

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError {
				return
			}
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			defer logger.Close()

			if logger.toFile != tt.toFile {
				t.Errorf("expected toFile=%v, got %v", tt.toFile, logger.toFile)
			}
			if logger.summary.DryRun != tt.config.DryRun {
				t.Errorf("expected DryRun=%v, got %v", tt.config.DryRun, logger.summary.DryRun)
			}
			if logger.entries == nil {
				t.Error("entries should be initialized")
			}
		})
	}
}

func TestLogResult(t *testing.T) {
	tests := []struct {
		name            string
		result          *pipeline.Result
		err             error
		expectedWritten int
		expectedErrors  int
		expectedMapped  int
		expectedState   string
		expectedFailed  string
	}{
		{
			name:            "successful conversion",
			result:          doneResult(),
			expectedWritten: 1,
			expectedErrors:  0,
			expectedMapped:  9,
			expectedState:   "done",
		},
		{
			name:            "failed conversion",
			result:          failedResult(),
			err:             errors.New("file not found"),
			expectedWritten: 0,
			expectedErrors:  1,
			expectedMapped:  0,
			expectedState:   "failed",
			expectedFailed:  "reading",
		},
		{
			name:            "nil result",
			result:          nil,
			err:             errors.New("boom"),
			expectedWritten: 0,
			expectedErrors:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(&config.Config{Quiet: true}, io.Discard, discardLogger())
			if err != nil {
				t.Fatal(err)
			}
			defer logger.Close()

			logger.LogResult(tt.result, tt.err)

			if logger.summary.Conversions != 1 {
				t.Errorf("expected 1 conversion, got %d", logger.summary.Conversions)
			}
			if logger.summary.Written != tt.expectedWritten {
				t.Errorf("expected %d written, got %d", tt.expectedWritten, logger.summary.Written)
			}
			if logger.summary.ErrorCount != tt.expectedErrors {
				t.Errorf("expected %d errors, got %d", tt.expectedErrors, logger.summary.ErrorCount)
			}
			if logger.summary.TotalMapped != tt.expectedMapped {
				t.Errorf("expected %d mapped, got %d", tt.expectedMapped, logger.summary.TotalMapped)
			}
			if len(logger.entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(logger.entries))
			}
			if logger.entries[0].State != tt.expectedState {
				t.Errorf("expected state %q, got %q", tt.expectedState, logger.entries[0].State)
			}
			if logger.entries[0].FailedIn != tt.expectedFailed {
				t.Errorf("expected failed_in %q, got %q", tt.expectedFailed, logger.entries[0].FailedIn)
			}
		})
	}
}

func TestLogResultDiagnostics(t *testing.T) {
	var diag bytes.Buffer
	cfg := &config.Config{Verbose: true}
	logger, err := NewLogger(cfg, io.Discard, Setup(cfg, &diag))
	if err != nil {
		t.Fatal(err)
	}

	logger.LogResult(doneResult(), nil)
	logger.LogResult(failedResult(), errors.New("not found"))

	output := diag.String()
	for _, expected := range []string{"conversion finished", "mapped=9", "conversion failed", "stage=reading"} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected diagnostics to contain %q, got:\n%s", expected, output)
		}
	}
}

func TestSetProcessingTime(t *testing.T) {
	logger, err := NewLogger(&config.Config{}, io.Discard, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	duration := 5 * time.Millisecond
	logger.SetProcessingTime(duration)

	if logger.summary.ProcessingTime != duration {
		t.Errorf("expected processing time %v, got %v", duration, logger.summary.ProcessingTime)
	}
}

func TestWriteJSONReport(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.json")
	cfg := &config.Config{LogFile: reportPath, LogFormat: config.LogFormatJSON}

	logger, err := NewLogger(cfg, io.Discard, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	logger.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger.LogResult(doneResult(), nil)
	if err := logger.WriteReport(); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}

	var report struct {
		Summary Summary `json:"summary"`
		Entries []Entry `json:"entries"`
	}
	if err := json.Unmarshal(content, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, content)
	}

	if report.Summary.Conversions != 1 || report.Summary.Written != 1 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(report.Entries))
	}
	entry := report.Entries[0]
	if entry.InputPath != "in.txt" || entry.OutputPath != "out.txt" {
		t.Errorf("unexpected paths: %+v", entry)
	}
	if entry.Timestamp != "2024-01-02T03:04:05Z" {
		t.Errorf("unexpected timestamp %q", entry.Timestamp)
	}
}

func TestWriteCSVReport(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{
		config:  &config.Config{LogFormat: config.LogFormatCSV},
		writer:  &buf,
		toFile:  true,
		diag:    discardLogger(),
		entries: []Entry{},
		summary: Summary{DryRun: true},
		now:     time.Now,
	}

	logger.LogResult(doneResult(), nil)
	logger.LogResult(failedResult(), errors.New("file error for missing.txt: file not found"))

	if err := logger.WriteReport(); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	output := buf.String()
	var csvLines []string
	for _, line := range strings.Split(output, "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			csvLines = append(csvLines, line)
		}
	}

	records, err := csv.NewReader(strings.NewReader(strings.Join(csvLines, "\n"))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if records[0][0] != "input_path" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][2] != "done" || records[1][5] != "9" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][2] != "failed" || !strings.Contains(records[2][9], "file not found") {
		t.Errorf("unexpected second row: %v", records[2])
	}

	for _, expected := range []string{"# Translit CSV Report (dry-run)", "# Conversions: 2", "# Errors: 1"} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected output to contain %q", expected)
		}
	}
}

func TestWriteSummaryReport(t *testing.T) {
	tests := []struct {
		name      string
		config    *config.Config
		expectOut bool
	}{
		{name: "verbose prints summary", config: &config.Config{Verbose: true}, expectOut: true},
		{name: "default is silent", config: &config.Config{}, expectOut: false},
		{name: "quiet is silent", config: &config.Config{Verbose: true, Quiet: true}, expectOut: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(tt.config, &buf, discardLogger())
			if err != nil {
				t.Fatal(err)
			}

			logger.LogResult(failedResult(), errors.New("file not found"))
			if err := logger.WriteReport(); err != nil {
				t.Fatal(err)
			}

			output := buf.String()
			if !tt.expectOut {
				if output != "" {
					t.Errorf("expected no output, got %q", output)
				}
				return
			}
			for _, expected := range []string{"=== Translit Summary (production) ===", "Errors: 1", "missing.txt: file not found"} {
				if !strings.Contains(output, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, output)
				}
			}
		})
	}
}

func TestLoggerClose(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "report.csv")

	logger, err := NewLogger(&config.Config{LogFile: logFile}, io.Discard, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("unexpected error closing logger: %v", err)
	}
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("log file should have been created")
	}

	console, err := NewLogger(&config.Config{}, io.Discard, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := console.Close(); err != nil {
		t.Errorf("closing a console logger should be a no-op, got %v", err)
	}
}

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.Config
		level   slog.Level
		enabled bool
	}{
		{"default hides info", &config.Config{}, slog.LevelInfo, false},
		{"default shows warn", &config.Config{}, slog.LevelWarn, true},
		{"verbose shows info", &config.Config{Verbose: true}, slog.LevelInfo, true},
		{"verbose hides debug", &config.Config{Verbose: true}, slog.LevelDebug, false},
		{"debug shows debug", &config.Config{Debug: true}, slog.LevelDebug, true},
		{"quiet hides errors", &config.Config{Quiet: true}, slog.LevelError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Setup(tt.config, io.Discard)
			if got := logger.Enabled(context.Background(), tt.level); got != tt.enabled {
				t.Errorf("Enabled(%v) = %v, expected %v", tt.level, got, tt.enabled)
			}
		})
	}
}
