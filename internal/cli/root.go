package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/deathnote/internal/config"
	"github.com/roach88/deathnote/internal/note"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	DBPath    string
	RulesPath string
	EnvFile   string

	// Clock overrides the notebook clock (for testing).
	// If nil, defaults to note.SystemClock.
	Clock note.Clock

	// Logger is configured in PersistentPreRunE from Verbose.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the deathnote CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deathnote",
		Short: "deathnote - a notebook of names and their fates",
		Long: `A persistent notebook of names, causes and details of death.

Writing a name files it with the default cause. The cause of the most
recently written name can be amended for 40ms, its details for 6040ms.

Settings come from flags, then the environment (DEATHNOTE_DB,
DEATHNOTE_RULES, DEATHNOTE_FORMAT), then a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", config.DefaultDBPath, "path to SQLite notebook database")
	cmd.PersistentFlags().StringVar(&opts.RulesPath, "rules", "", "CUE rulebook file (default: built-in rules)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", "", "dotenv file (default: .env if present)")

	// Add subcommands
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewAmendCommand(opts, fieldCause))
	cmd.AddCommand(NewAmendCommand(opts, fieldDetails))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve merges configuration under explicitly set flags, validates the
// format and configures logging.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if !flags.Changed("db") {
		opts.DBPath = cfg.DBPath
	}
	if !flags.Changed("rules") {
		opts.RulesPath = cfg.RulesPath
	}

	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	opts.Logger.Debug("configuration resolved",
		"db", opts.DBPath,
		"rules", opts.RulesPath,
		"format", opts.Format,
	)
	return nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// Execute runs the CLI with args and returns the process exit code.
// Errors not already rendered by a command are printed to stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Reported {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return GetExitCode(err)
	}

	// Flag and argument errors from cobra itself.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitCommandError
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
