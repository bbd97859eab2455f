package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"translit/internal/config"
	"translit/internal/errors"
)

const programName = "translit"

// newRootCmd builds the root command bound to cfg. A fresh command is built per
// invocation so that flag state never leaks between runs.
func newRootCmd(cfg *config.Config, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   programName + " [flags] <input_file> <output_file>",
		Short: "Transliterate Russian Cyrillic text to Latin and save it as CP850",
		Long: `Translit reads a UTF-8 text file, replaces every Russian Cyrillic letter
with its Latin transliteration (щ -> shch, Ё -> Yo, ...) and writes the result
encoded in code page 850. Characters that CP850 cannot represent are dropped.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.NewArgumentsError(fmt.Sprintf("expected 2 arguments, got %d", len(args)), nil)
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InputFile = args[0]
			cfg.OutputFile = args[1]

			if err := cfg.Validate(); err != nil {
				return err
			}

			return executeConvert(cmd.OutOrStdout(), stderr, cfg)
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewArgumentsError("invalid flag", err)
	})

	flags := rootCmd.Flags()
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "Transliterate and encode without writing the output file")
	flags.BoolVar(&cfg.Backup, "backup", false, "Copy an existing output file to <name>.<timestamp>.bak before overwriting it")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose mode")
	flags.BoolVar(&cfg.Debug, "debug", false, "Debug mode")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Quiet mode")
	flags.StringVar(&cfg.LogFile, "log", "", "Write a conversion report to this file")
	flags.Var((*logFormatFlag)(&cfg.LogFormat), "log-format", "Report format (json, csv)")
	flags.BoolVar(&cfg.StrictExit, "strict-exit", false, "Exit with status 1 on every failure, not only on bad arguments")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("debug", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("dry-run", "backup")

	return rootCmd
}

// Execute runs the command with the process arguments and exits with the
// status Run reports.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes one invocation and returns the process exit status.
// User-facing messages go to stdout; diagnostics go to stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg := &config.Config{}
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}

	rootCmd := newRootCmd(cfg, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	return reportOutcome(stdout, stderr, cfg, err)
}

// reportOutcome prints the console message for err and picks the exit status.
// Invocation errors always fail; every other failure uses the configured
// failure status, which is 0 unless --strict-exit was given. The reason for an
// invocation error goes to stderr so stdout only ever carries the usage line.
func reportOutcome(stdout, stderr io.Writer, cfg *config.Config, err error) int {
	switch {
	case err == nil:
		return config.ExitOK
	case isInvocationError(err):
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		fmt.Fprintf(stdout, "Usage: %s <input_file> <output_file>\n", programName)
		return config.ExitFailure
	case errors.IsNotFound(err):
		fmt.Fprintf(stdout, "Error: The file '%s' was not found.\n", cfg.InputFile)
		return cfg.FailureExitCode()
	default:
		fmt.Fprintf(stdout, "Error: %s\n", err.Error())
		return cfg.FailureExitCode()
	}
}

// isInvocationError reports whether err means the command line itself was
// malformed. Errors cobra raises on its own (flag groups, parsing) carry no
// TranslitError and are treated the same as a wrong argument count.
func isInvocationError(err error) bool {
	kind, ok := errors.KindOf(err)
	return !ok || kind == errors.ErrTypeArguments
}

type logFormatFlag config.LogFormat

var _ pflag.Value = (*logFormatFlag)(nil)

func (f *logFormatFlag) String() string {
	return string(*f)
}

func (f *logFormatFlag) Set(v string) error {
	switch v {
	case "json", "csv":
		*f = logFormatFlag(v)
		return nil
	default:
		return fmt.Errorf("must be 'json' or 'csv'")
	}
}

func (f *logFormatFlag) Type() string {
	return "string"
}
