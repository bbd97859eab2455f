// Package log provides diagnostic logging and the conversion report for translit.
// Diagnostics go through log/slog; the report records what each conversion read,
// mapped, dropped and wrote, in JSON, CSV or a plain summary.
package log

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"translit/internal/config"
	"translit/internal/errors"
	"translit/internal/pipeline"
)

// Entry represents a single conversion with its outcome.
type Entry struct {
	Timestamp   string `json:"timestamp"`
	InputPath   string `json:"input_path"`
	OutputPath  string `json:"output_path"`
	State       string `json:"state"`
	FailedIn    string `json:"failed_in,omitempty"`
	InputBytes  int64  `json:"input_bytes"`
	Runes       int    `json:"runes"`
	Mapped      int    `json:"mapped"`
	Dropped     int    `json:"dropped"`
	OutputBytes int64  `json:"output_bytes"`
	Written     bool   `json:"written"`
	BackupPath  string `json:"backup_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Summary provides aggregate statistics for the run.
type Summary struct {
	Conversions    int           `json:"conversions"`
	Written        int           `json:"written"`
	TotalMapped    int           `json:"total_mapped"`
	TotalDropped   int           `json:"total_dropped"`
	ErrorCount     int           `json:"error_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	DryRun         bool          `json:"dry_run"`
}

// Logger collects conversion entries and renders the final report.
// The report goes to the --log file when one is configured, otherwise to the
// console writer, and only in verbose mode.
type Logger struct {
	config  *config.Config
	writer  io.Writer
	toFile  bool
	diag    *slog.Logger
	entries []Entry
	summary Summary
	now     func() time.Time
}

// NewLogger creates a Logger. console receives the summary when no report
// file is configured; diag receives one record per logged result.
func NewLogger(cfg *config.Config, console io.Writer, diag *slog.Logger) (*Logger, error) {
	if diag == nil {
		diag = slog.Default()
	}

	writer := console
	toFile := false

	if cfg.LogFile != "" {
		file, err := os.Create(cfg.LogFile)
		if err != nil {
			return nil, errors.NewConfigErrorWithPath(cfg.LogFile, "failed to create log file", err)
		}
		writer = file
		toFile = true
	}

	return &Logger{
		config:  cfg,
		writer:  writer,
		toFile:  toFile,
		diag:    diag,
		entries: []Entry{},
		summary: Summary{
			DryRun: cfg.DryRun,
		},
		now: time.Now,
	}, nil
}

// LogResult records the outcome of a conversion. runErr is the error returned
// by the pipeline, if any.
func (l *Logger) LogResult(result *pipeline.Result, runErr error) {
	entry := Entry{
		Timestamp: l.now().Format(time.RFC3339),
	}

	if result != nil {
		entry.InputPath = result.InputPath
		entry.OutputPath = result.OutputPath
		entry.State = result.State.String()
		entry.InputBytes = result.InputBytes
		entry.Runes = result.Runes
		entry.Mapped = result.Mapped
		entry.Dropped = result.Dropped
		entry.OutputBytes = result.OutputBytes
		entry.Written = result.Written
		entry.BackupPath = result.BackupPath
		if result.State == pipeline.StateFailed {
			entry.FailedIn = result.FailedIn.String()
		}
	}

	if runErr != nil {
		entry.Error = runErr.Error()
		l.summary.ErrorCount++
	} else {
		l.summary.TotalMapped += entry.Mapped
		l.summary.TotalDropped += entry.Dropped
		if entry.Written {
			l.summary.Written++
		}
	}

	l.entries = append(l.entries, entry)
	l.summary.Conversions++

	l.logEntry(entry)
}

func (l *Logger) logEntry(entry Entry) {
	if entry.Error != "" {
		l.diag.Info("conversion failed",
			"input", entry.InputPath,
			"stage", entry.FailedIn,
			"error", entry.Error)
		return
	}

	l.diag.Info("conversion finished",
		"input", entry.InputPath,
		"output", entry.OutputPath,
		"runes", entry.Runes,
		"mapped", entry.Mapped,
		"dropped", entry.Dropped,
		"bytes", entry.OutputBytes,
		"written", entry.Written)
}

// SetProcessingTime records the total run duration for reporting.
func (l *Logger) SetProcessingTime(duration time.Duration) {
	l.summary.ProcessingTime = duration
}

// WriteReport renders the report. A configured report file always receives it
// in the configured format; without one the plain summary is printed only in
// verbose mode.
func (l *Logger) WriteReport() error {
	if !l.toFile {
		if !l.config.IsVerbose() {
			return nil
		}
		return l.writeSummaryReport()
	}

	switch l.config.LogFormat {
	case config.LogFormatCSV:
		return l.writeCSVReport()
	default:
		return l.writeJSONReport()
	}
}

func (l *Logger) writeJSONReport() error {
	report := struct {
		Summary Summary `json:"summary"`
		Entries []Entry `json:"entries"`
	}{
		Summary: l.summary,
		Entries: l.entries,
	}

	encoder := json.NewEncoder(l.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (l *Logger) writeCSVReport() error {
	writer := csv.NewWriter(l.writer)

	header := []string{
		"input_path", "output_path", "state", "input_bytes", "runes",
		"mapped", "dropped", "output_bytes", "backup_path", "error",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, entry := range l.entries {
		record := []string{
			entry.InputPath,
			entry.OutputPath,
			entry.State,
			strconv.FormatInt(entry.InputBytes, 10),
			strconv.Itoa(entry.Runes),
			strconv.Itoa(entry.Mapped),
			strconv.Itoa(entry.Dropped),
			strconv.FormatInt(entry.OutputBytes, 10),
			entry.BackupPath,
			entry.Error,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Fprintf(l.writer, "# Translit CSV Report (%s)\n", l.mode())
	fmt.Fprintf(l.writer, "# Conversions: %d\n", l.summary.Conversions)
	fmt.Fprintf(l.writer, "# Files written: %d\n", l.summary.Written)
	fmt.Fprintf(l.writer, "# Characters mapped: %d\n", l.summary.TotalMapped)
	fmt.Fprintf(l.writer, "# Characters dropped: %d\n", l.summary.TotalDropped)
	fmt.Fprintf(l.writer, "# Errors: %d\n", l.summary.ErrorCount)
	fmt.Fprintf(l.writer, "# Processing time: %v\n", l.summary.ProcessingTime)

	return nil
}

func (l *Logger) writeSummaryReport() error {
	fmt.Fprintf(l.writer, "\n=== Translit Summary (%s) ===\n", l.mode())
	fmt.Fprintf(l.writer, "Conversions: %d\n", l.summary.Conversions)
	fmt.Fprintf(l.writer, "Files written: %d\n", l.summary.Written)
	fmt.Fprintf(l.writer, "Characters mapped: %d\n", l.summary.TotalMapped)
	fmt.Fprintf(l.writer, "Characters dropped: %d\n", l.summary.TotalDropped)
	fmt.Fprintf(l.writer, "Errors: %d\n", l.summary.ErrorCount)
	fmt.Fprintf(l.writer, "Processing time: %v\n", l.summary.ProcessingTime)

	if l.summary.ErrorCount > 0 {
		fmt.Fprintf(l.writer, "\nErrors encountered:\n")
		for _, entry := range l.entries {
			if entry.Error != "" {
				fmt.Fprintf(l.writer, "  %s: %s\n", entry.InputPath, entry.Error)
			}
		}
	}

	return nil
}

func (l *Logger) mode() string {
	if l.summary.DryRun {
		return "dry-run"
	}
	return "production"
}

// Close releases the report file, if one was opened. The console writer is
// never closed.
func (l *Logger) Close() error {
	if !l.toFile {
		return nil
	}
	if closer, ok := l.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
