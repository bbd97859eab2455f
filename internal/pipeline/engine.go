// Package pipeline implements the read → transliterate → write conversion as a
// middleware chain. Each stage receives the context produced by the previous
// one; the first stage to record an error stops the chain and the result is
// marked Failed with the stage it failed in.
package pipeline

import (
	stderrors "errors"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"translit/internal/backup"
	"translit/internal/codepage"
	"translit/internal/config"
	"translit/internal/errors"
	"translit/internal/translit"
)

// State is a step of the conversion.
type State int

// Conversion states in the order they are entered. Failed is terminal and can
// be reached from ValidatingArgs, Reading or Writing.
const (
	StateValidatingArgs State = iota
	StateReading
	StateTransforming
	StateWriting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidatingArgs:
		return "validating-args"
	case StateReading:
		return "reading"
	case StateTransforming:
		return "transforming"
	case StateWriting:
		return "writing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes the outcome of one conversion.
type Result struct {
	InputPath   string
	OutputPath  string
	InputBytes  int64
	Runes       int
	Mapped      int
	Dropped     int
	OutputBytes int64
	BackupPath  string
	Written     bool
	DryRun      bool
	State       State
	FailedIn    State
}

// Middleware defines a processing step in the conversion pipeline.
type Middleware func(ProcessContext) ProcessContext

// ProcessContext carries state through the pipeline.
type ProcessContext struct {
	Config  *config.Config
	Table   *translit.Table
	Backup  *backup.Manager
	Logger  *slog.Logger
	Source  string
	Text    string
	Encoded []byte
	Result  *Result
	Error   error
}

// Engine orchestrates a conversion using a middleware pipeline.
type Engine struct {
	config     *config.Config
	table      *translit.Table
	backup     *backup.Manager
	logger     *slog.Logger
	middleware []Middleware
}

// NewEngine creates an engine with the standard read, transliterate, encode
// and write stages. A nil logger falls back to slog.Default.
func NewEngine(cfg *config.Config, table *translit.Table, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	engine := &Engine{
		config:     cfg,
		table:      table,
		backup:     backup.NewBackupManager(cfg.ShouldCreateBackup()),
		logger:     logger,
		middleware: []Middleware{},
	}

	engine.Use(readMiddleware)
	engine.Use(transliterateMiddleware)
	engine.Use(encodeMiddleware)
	engine.Use(writeMiddleware)

	return engine
}

// Use appends a middleware to the pipeline.
func (e *Engine) Use(middleware Middleware) {
	e.middleware = append(e.middleware, middleware)
}

// Run executes the pipeline for the configured input and output paths.
// The returned Result is never nil; on failure it records the failing stage.
func (e *Engine) Run() (*Result, error) {
	ctx := ProcessContext{
		Config: e.config,
		Table:  e.table,
		Backup: e.backup,
		Logger: e.logger.With("input", e.config.InputFile, "output", e.config.OutputFile),
		Result: &Result{
			InputPath:  e.config.InputFile,
			OutputPath: e.config.OutputFile,
			DryRun:     e.config.DryRun,
			State:      StateReading,
		},
	}

	for _, mw := range e.middleware {
		ctx = mw(ctx)
		if ctx.Error != nil {
			ctx.Result.FailedIn = ctx.Result.State
			ctx.Result.State = StateFailed
			ctx.Logger.Debug("conversion failed", "stage", ctx.Result.FailedIn.String(), "error", ctx.Error)
			return ctx.Result, ctx.Error
		}
	}

	ctx.Result.State = StateDone
	return ctx.Result, nil
}

func readMiddleware(ctx ProcessContext) ProcessContext {
	ctx.Result.State = StateReading
	path := ctx.Config.InputFile

	file, err := os.Open(path)
	if err != nil {
		ctx.Error = errors.WrapFileError(path, err, false)
		return ctx
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil {
		ctx.Result.InputBytes = info.Size()
	}

	text, err := codepage.ReadUTF8(file)
	if err != nil {
		if stderrors.Is(err, encoding.ErrInvalidUTF8) {
			ctx.Error = errors.NewDecodeError(path, "input is not valid UTF-8", err)
		} else {
			ctx.Error = errors.WrapFileError(path, err, false)
		}
		return ctx
	}

	ctx.Source = text
	ctx.Logger.Debug("read input", "bytes", len(text))
	return ctx
}

func transliterateMiddleware(ctx ProcessContext) ProcessContext {
	ctx.Result.State = StateTransforming

	text, mapped := ctx.Table.TransliterateCount(ctx.Source)
	ctx.Text = text
	ctx.Result.Runes = utf8.RuneCountInString(ctx.Source)
	ctx.Result.Mapped = mapped

	ctx.Logger.Debug("transliterated", "runes", ctx.Result.Runes, "mapped", mapped)
	return ctx
}

func encodeMiddleware(ctx ProcessContext) ProcessContext {
	ctx.Result.State = StateWriting

	encoded, dropped, err := codepage.Encode(ctx.Text)
	if err != nil {
		ctx.Error = errors.NewFileError(ctx.Config.OutputFile, "failed to encode output as CP850", err)
		return ctx
	}

	ctx.Encoded = encoded
	ctx.Result.Dropped = dropped
	ctx.Result.OutputBytes = int64(len(encoded))

	if dropped > 0 {
		ctx.Logger.Debug("dropped unrepresentable characters", "count", dropped)
	}
	return ctx
}

func writeMiddleware(ctx ProcessContext) ProcessContext {
	ctx.Result.State = StateWriting
	if ctx.Config.DryRun {
		ctx.Logger.Debug("dry run, output not written", "bytes", len(ctx.Encoded))
		return ctx
	}

	path := ctx.Config.OutputFile

	backupPath, err := ctx.Backup.BackupFile(path)
	if err != nil {
		ctx.Error = err
		return ctx
	}
	ctx.Result.BackupPath = backupPath
	if backupPath != "" {
		ctx.Logger.Debug("backed up existing output", "backup", backupPath)
	}

	if err := writeOutput(path, ctx.Encoded); err != nil {
		ctx.Error = err
		if backupPath != "" {
			restoreOutput(ctx, path, backupPath)
		}
		return ctx
	}

	ctx.Result.Written = true
	ctx.Logger.Debug("wrote output", "bytes", len(ctx.Encoded))
	return ctx
}

// restoreOutput puts the backed up output back after a failed write. The backup
// is only removed once the restore succeeded.
func restoreOutput(ctx ProcessContext, path, backupPath string) {
	if err := ctx.Backup.RestoreFile(path, backupPath); err != nil {
		ctx.Logger.Warn("failed to restore output from backup", "backup", backupPath, "error", err)
		return
	}
	ctx.Logger.Debug("restored output from backup", "backup", backupPath)

	if err := ctx.Backup.CleanupBackup(backupPath); err != nil {
		ctx.Logger.Warn("failed to remove backup after restore", "backup", backupPath, "error", err)
		return
	}
	ctx.Result.BackupPath = ""
}

// writeOutput is the file write used by the write stage.
var writeOutput = writeFile

// writeFile creates or truncates path and writes data to it. The file is
// closed on every path; a failed Close is reported as a write failure.
func writeFile(path string, data []byte) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapFileError(path, err, true)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.WrapFileError(path, cerr, true)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.WrapFileError(path, err, true)
	}
	return nil
}
