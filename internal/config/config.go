// Package config provides configuration management and validation for translit.
// It centralizes all command-line options and runtime settings, providing
// validation logic to catch configuration errors before any file is touched.
package config

import (
	"strings"

	"translit/internal/errors"
)

// LogFormat represents the supported output formats for the conversion report.
type LogFormat string

// Supported report formats.
const (
	LogFormatJSON LogFormat = "json"
	LogFormatCSV  LogFormat = "csv"
)

// Exit statuses used by the command layer.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Config holds all runtime configuration options for a conversion.
// It is filled by the cobra command from positional arguments and flags
// and handed to every component that needs a setting.
type Config struct {
	InputFile  string
	OutputFile string
	DryRun     bool
	Backup     bool
	Verbose    bool
	Debug      bool
	Quiet      bool
	LogFile    string
	LogFormat  LogFormat
	StrictExit bool
}

// Validate performs validation of configuration settings.
// Paths are kept exactly as given so that user-facing messages echo them back
// verbatim.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}

	if err := c.validateLogFormat(); err != nil {
		return err
	}

	c.normalizeConfig()
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.InputFile) == "" {
		return errors.NewConfigError("input file path is empty", nil)
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return errors.NewConfigError("output file path is empty", nil)
	}
	return nil
}

func (c *Config) validateLogFormat() error {
	if c.LogFormat != "" && c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatCSV {
		return errors.NewConfigError("log format must be 'json' or 'csv'", nil)
	}
	return nil
}

func (c *Config) normalizeConfig() {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
}

// IsVerbose determines if verbose logging is enabled. Quiet overrides Verbose.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// IsDebug determines if debug logging is enabled. Quiet overrides Debug.
func (c *Config) IsDebug() bool {
	return c.Debug && !c.Quiet
}

// ShouldLog determines if any diagnostic logging should occur.
func (c *Config) ShouldLog() bool {
	return !c.Quiet
}

// ShouldCreateBackup reports whether an existing output file is copied aside
// before being overwritten. Backups are opt-in and never taken on dry runs.
func (c *Config) ShouldCreateBackup() bool {
	return c.Backup && !c.DryRun
}

// FailureExitCode returns the process status for a failed conversion that is
// not an invocation error. Missing input and I/O failures historically exit
// with status 0; StrictExit turns them into ExitFailure.
func (c *Config) FailureExitCode() int {
	if c.StrictExit {
		return ExitFailure
	}
	return ExitOK
}
