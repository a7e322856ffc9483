package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleverdevil/nz/config"
	"github.com/cleverdevil/nz/datefmt"
	"github.com/cleverdevil/nz/newznab"
	"github.com/cleverdevil/nz/render"
)

// Process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build information reported by version and used by
// update.
func SetVersion(v, bt string) {
	if v != "" {
		version = v
	}
	if bt != "" {
		buildTime = bt
	}
}

// Execute runs the root command and exits the process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

// app holds everything a command needs once initialization has run
type app struct {
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
	client     *newznab.Client
	formatter  *render.ConsoleFormatter
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "nz",
		Short: "Command line interface to Newznab API endpoints",
		Long: `nz talks to a Newznab compatible indexer. It searches releases, lists
the indexer's categories, shows release details and downloads NZB and NFO
files.

The endpoint and API key are required and can be given as flags, through
NZ_ENDPOINT and NZ_APIKEY, or in nz.yaml (current directory or ~/.config/nz).`,
		Version:       version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("nz {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./nz.yaml, then ~/.config/nz/nz.yaml)")
	flags.String("endpoint", "", "the Newznab API endpoint to use [NZ_ENDPOINT]")
	flags.String("apikey", "", "API key for your Newznab endpoint [NZ_APIKEY]")
	flags.Bool("debug", false, "echo request URLs and raw responses [NZ_DEBUG]")
	flags.Duration("timeout", config.DefaultTimeout, "HTTP request timeout [NZ_TIMEOUT]")

	root.AddCommand(
		newSearchCmd(a),
		newCategoriesCmd(a),
		newNZBCmd(a),
		newVersionCmd(a),
		newUpdateCmd(a),
	)

	return root
}

// initialize loads the configuration and creates the indexer client
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = setupLogger(cfg.Logging, cfg.Debug, cmd.ErrOrStderr())

	a.client, err = newznab.NewClient(cfg.Endpoint, cfg.APIKey, a.logger,
		newznab.WithTimeout(cfg.Timeout),
		newznab.WithDebug(cfg.Debug),
		newznab.WithUserAgent("nz/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create Newznab client: %w", err)
	}

	a.formatter = render.NewConsoleFormatter(datefmt.Default, isTerminal(cmd.OutOrStdout()))

	a.logger.Debug().
		Str("endpoint", cfg.Endpoint).
		Dur("timeout", cfg.Timeout).
		Msg("Initialized")

	return nil
}

// initializeLogging is used by commands that never contact the indexer
func (a *app) initializeLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLogging(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = setupLogger(cfg.Logging, cfg.Debug, cmd.ErrOrStderr())
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, debug bool, out io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// handled reports an indexer error to the user. The indexer answered, so the
// command still succeeds.
func handled(cmd *cobra.Command, err error) error {
	var apiErr *newznab.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(cmd.OutOrStdout(), "Error %s: %s\n", apiErr.Code, apiErr.Description)
		return nil
	}
	return err
}

// usageError marks errors caused by the invocation itself
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs marks positional argument errors as usage errors
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	var usage *usageError
	switch {
	case errors.As(err, &usage),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, newznab.ErrInvalidConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}
