// Package cmd implements the command-line interface and orchestration logic for translit.
// It wires configuration, the conversion pipeline and reporting together and
// turns the outcome into console messages and an exit status.
package cmd

import (
	"fmt"
	"io"
	"time"

	"translit/internal/config"
	"translit/internal/log"
	"translit/internal/pipeline"
	"translit/internal/translit"
)

func executeConvert(stdout, stderr io.Writer, cfg *config.Config) error {
	startTime := time.Now()

	diag := log.Setup(cfg, stderr)

	reporter, err := log.NewLogger(cfg, stderr, diag)
	if err != nil {
		return err
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			diag.Warn("failed to close conversion report", "error", err)
		}
	}()

	engine := pipeline.NewEngine(cfg, translit.Default(), diag)
	result, runErr := engine.Run()

	reporter.LogResult(result, runErr)
	reporter.SetProcessingTime(time.Since(startTime))
	if err := reporter.WriteReport(); err != nil {
		diag.Warn("failed to write conversion report", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	if cfg.DryRun {
		fmt.Fprintf(stdout, "Dry run: would convert '%s' to '%s' (%d bytes)\n",
			cfg.InputFile, cfg.OutputFile, result.OutputBytes)
		return nil
	}

	fmt.Fprintf(stdout, "Success! Converted '%s' to '%s'\n", cfg.InputFile, cfg.OutputFile)
	return nil
}
