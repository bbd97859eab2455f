// Package errors provides a hierarchical error system for translit operations.
// It implements typed errors that can be inspected and handled differently
// based on their category, so the command layer can pick the right console
// message and exit status for every failure path.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorType represents the category of error for classification and handling.
type ErrorType string

// Error type constants define the categories of errors that can occur during a conversion.
const (
	ErrTypeArguments ErrorType = "arguments"
	ErrTypeFile      ErrorType = "file"
	ErrTypeConfig    ErrorType = "config"
	ErrTypeDecode    ErrorType = "decode"
	ErrTypeBackup    ErrorType = "backup"
)

// TranslitError is the base error type that provides structured error information.
// Specific error kinds embed it, so a single errors.As against *TranslitError
// recovers the category, the path involved and the underlying cause.
type TranslitError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

func (e *TranslitError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Path, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *TranslitError) Unwrap() error {
	return e.Cause
}

// Is implements error identity checking for errors.Is.
// Two TranslitErrors match when they share the same category.
func (e *TranslitError) Is(target error) bool {
	t, ok := target.(*TranslitError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Kind returns the error category. It is promoted to every error type that
// embeds TranslitError.
func (e *TranslitError) Kind() ErrorType {
	return e.Type
}

type kinded interface {
	error
	Kind() ErrorType
}

// KindOf returns the category of the first typed error in err's chain.
// ok is false when err carries no TranslitError at all.
func KindOf(err error) (kind ErrorType, ok bool) {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}

// ArgumentsError represents a malformed command invocation (wrong positional
// argument count or unknown flags). It is the only failure that always
// terminates with a non-zero exit status.
type ArgumentsError struct {
	*TranslitError
}

// NewArgumentsError creates an invocation error.
func NewArgumentsError(message string, cause error) *ArgumentsError {
	return &ArgumentsError{
		TranslitError: &TranslitError{
			Type:    ErrTypeArguments,
			Message: message,
			Cause:   cause,
		},
	}
}

// FileError represents file system operation errors and embeds TranslitError
// to provide file-specific context.
type FileError struct {
	*TranslitError
}

// NewFileError creates a file operation error with context.
func NewFileError(path, message string, cause error) *FileError {
	return &FileError{
		TranslitError: &TranslitError{
			Type:    ErrTypeFile,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// FileNotFoundError represents errors when the input file cannot be located.
type FileNotFoundError struct {
	*FileError
}

// NewFileNotFoundError creates a file not found error.
func NewFileNotFoundError(path string, cause error) *FileNotFoundError {
	return &FileNotFoundError{
		FileError: NewFileError(path, "file not found", cause),
	}
}

// FileNotWritableError represents errors when the output file cannot be written to.
type FileNotWritableError struct {
	*FileError
}

// NewFileNotWritableError creates a file write permission error.
func NewFileNotWritableError(path string, cause error) *FileNotWritableError {
	return &FileNotWritableError{
		FileError: NewFileError(path, "file not writable", cause),
	}
}

// FileNotReadableError represents errors when the input file cannot be read from.
type FileNotReadableError struct {
	*FileError
}

// NewFileNotReadableError creates a file read permission error.
func NewFileNotReadableError(path string, cause error) *FileNotReadableError {
	return &FileNotReadableError{
		FileError: NewFileError(path, "file not readable", cause),
	}
}

// ConfigError represents configuration validation errors.
type ConfigError struct {
	*TranslitError
}

// NewConfigError creates a configuration error without path context.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		TranslitError: &TranslitError{
			Type:    ErrTypeConfig,
			Message: message,
			Cause:   cause,
		},
	}
}

// NewConfigErrorWithPath creates a configuration error tied to a file path.
func NewConfigErrorWithPath(path, message string, cause error) *ConfigError {
	return &ConfigError{
		TranslitError: &TranslitError{
			Type:    ErrTypeConfig,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// DecodeError represents input that is not well-formed UTF-8.
// Invalid byte sequences are never replaced; the read fails instead.
type DecodeError struct {
	*TranslitError
}

// NewDecodeError creates a decoding error for the given input path.
func NewDecodeError(path, message string, cause error) *DecodeError {
	return &DecodeError{
		TranslitError: &TranslitError{
			Type:    ErrTypeDecode,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// BackupError represents errors during backup and restore of the output file.
type BackupError struct {
	*TranslitError
}

// NewBackupError creates a backup operation error.
func NewBackupError(path, message string, cause error) *BackupError {
	return &BackupError{
		TranslitError: &TranslitError{
			Type:    ErrTypeBackup,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// WrapFileError converts standard Go errors into typed file errors.
// A missing file being read becomes FileNotFoundError; permission failures
// become FileNotWritableError or FileNotReadableError depending on write.
// A missing parent directory on write stays a plain FileError so it is never
// reported as a missing input.
func WrapFileError(path string, err error, write bool) error {
	if err == nil {
		return nil
	}

	switch {
	case isNotFoundError(err) && !write:
		return NewFileNotFoundError(path, err)
	case isPermissionError(err) && write:
		return NewFileNotWritableError(path, err)
	case isPermissionError(err):
		return NewFileNotReadableError(path, err)
	default:
		return NewFileError(path, "file operation failed", err)
	}
}

// IsNotFound reports whether err is, or wraps, a FileNotFoundError.
func IsNotFound(err error) bool {
	var nf *FileNotFoundError
	return errors.As(err, &nf)
}

// IsArguments reports whether err is, or wraps, an ArgumentsError.
func IsArguments(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == ErrTypeArguments
}

func isNotFoundError(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func isPermissionError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
