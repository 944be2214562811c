// Package cli implements the cobra-based command tree for worldclock.
//
// Each subcommand (tz, time, ip) is defined in its own file within this
// package. This file defines the root command, the global flags, and App,
// which turns one argument list into one process exit code.
//
// cobra only parses arguments and renders help here. Execution is delegated
// to chain.Strategy: the leaf's RunE collects the root-to-leaf chain of
// command objects and hands it to the strategy, which validates every link
// and then executes them in order.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worldclock/internal/chain"
	"github.com/shinji-kodama/worldclock/internal/config"
	"github.com/shinji-kodama/worldclock/internal/logging"
	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
	"github.com/shinji-kodama/worldclock/internal/worldtime"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// TimeAPI is the subset of the WorldTimeAPI client the commands use.
// *worldtime.Client implements it; tests substitute a fake.
type TimeAPI interface {
	ListTimezones(ctx context.Context) ([]string, error)
	ListLocationsInArea(ctx context.Context, area string) ([]string, error)
	GetTimeForLocation(ctx context.Context, area, location string) (map[string]any, error)
	LookupIP(ctx context.Context, ip string) (map[string]any, error)
}

// Options wires an App to its environment. Zero fields get process
// defaults (os.Stdout, os.Stderr, os.Getenv, a real API client, the
// criterio-backed validator).
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// API replaces the client built from configuration.
	API TimeAPI

	// Validator replaces validate.New().
	Validator validate.Validator
}

// App runs worldclock invocations.
type App struct {
	opts Options
}

// New returns an App using opts.
func New(opts Options) *App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Validator == nil {
		opts.Validator = validate.New()
	}
	return &App{opts: opts}
}

// globalFlags holds the values of the root's persistent flags.
type globalFlags struct {
	// jsonOutput controls whether command output and errors are JSON.
	jsonOutput bool

	configPath string
	logLevel   string
	baseURL    string
}

// session is the state of one invocation. Each Run builds a fresh command
// tree bound to a fresh session, so nothing is shared between runs.
type session struct {
	app     *App
	flags   globalFlags
	targets map[*cobra.Command]any

	// Populated by prepare, just before the chain runs.
	api TimeAPI
	log zerolog.Logger

	report *chain.Report
}

func (s *session) stdout() io.Writer { return s.app.opts.Stdout }

func (s *session) stderr() io.Writer { return s.app.opts.Stderr }

// bind records target as the command object behind cmd.
func (s *session) bind(cmd *cobra.Command, target any) *cobra.Command {
	s.targets[cmd] = target
	return cmd
}

// rootCommand is the chain object of the root command.
type rootCommand struct {
	s *session

	// verbose makes the root greet the user.
	verbose bool
}

// Execute implements chain.Command. The greeting is text only; it is
// skipped under --json so stdout stays a single JSON document.
func (c *rootCommand) Execute(context.Context) model.Outcome[int] {
	if c.verbose && !c.s.flags.jsonOutput {
		fmt.Fprintln(c.s.stdout(), "Hi!")
	}
	return model.Succeed(0)
}

// newRootCommand creates and configures the root cobra command with all
// subcommands registered.
func (s *session) newRootCommand() *cobra.Command {
	target := &rootCommand{s: s}

	rootCmd := &cobra.Command{
		Use:   "worldclock",
		Short: "Query world time zones from the command line",
		Long: `worldclock looks up time zone information using WorldTimeAPI.

Subcommands run after the root command, in order. Every command is
validated before any command executes, and the first failure stops
the chain.

Exit codes:
  0  success (or help)
  1  a command failed
  2  invalid flags, arguments or configuration`,

		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// SilenceErrors lets Run format errors (text or JSON).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runChain(cmd)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVarP(&target.verbose, "verbose", "v", false, "Greet before running")
	rootCmd.PersistentFlags().BoolVar(&s.flags.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&s.flags.configPath, "config", "", "Config file (.yaml, .yml, .json, .jsonc)")
	rootCmd.PersistentFlags().StringVar(&s.flags.logLevel, "log-level", "", "Diagnostics level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&s.flags.baseURL, "base-url", "", "WorldTimeAPI base URL")

	rootCmd.AddCommand(s.newTZCommand())
	rootCmd.AddCommand(s.newTimeCommand())
	rootCmd.AddCommand(s.newIPCommand())

	return s.bind(rootCmd, target)
}

// Run executes one invocation and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) model.ExitCode {
	s := &session{
		app:     a,
		targets: make(map[*cobra.Command]any),
		log:     zerolog.Nop(),
	}

	rootCmd := s.newRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.opts.Stdout)
	rootCmd.SetErr(a.opts.Stderr)

	if _, err := rootCmd.ExecuteContextC(ctx); err != nil {
		// Errors reach here from argument parsing (cobra/pflag) or from
		// prepare. Chain failures are reported by the strategy instead.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			s.printError(cliErr.Message, cliErr.Err)
			return cliErr.Code
		}
		s.printError(err.Error(), nil)
		return model.ExitUsageError
	}

	if s.report == nil {
		// cobra served --help, --version or the help command without
		// reaching any RunE.
		report := chain.NewStrategy(a.opts.Validator, a.opts.Stderr).
			Run(ctx, chain.Invocation{Help: true})
		return report.ExitCode()
	}

	return s.report.ExitCode()
}

// runChain is the RunE of every command. cobra calls it for the leaf only;
// the chain is rebuilt from the leaf's parents, root first.
func (s *session) runChain(cmd *cobra.Command) error {
	closer, err := s.prepare()
	if err != nil {
		return err
	}
	defer closer()

	var links []chain.Link
	for c := cmd; c != nil; c = c.Parent() {
		links = append([]chain.Link{{Name: c.Name(), Target: s.targets[c]}}, links...)
	}

	strategy := chain.NewStrategy(s.app.opts.Validator, s.stderr(),
		chain.WithLogger(s.log),
		chain.WithErrorPrinter(s.printChainError),
	)
	report := strategy.Run(cmd.Context(), chain.Invocation{Links: links})
	s.report = &report
	return nil
}

// prepare resolves configuration, then builds the logger and API client the
// commands use. Flags override config and environment.
func (s *session) prepare() (func(), error) {
	cfg, err := config.Load(s.flags.configPath, s.app.opts.Getenv)
	if err != nil {
		return nil, err
	}
	if s.flags.baseURL != "" {
		cfg.BaseURL = s.flags.baseURL
	}
	if s.flags.logLevel != "" {
		cfg.LogLevel = s.flags.logLevel
	}

	violations, err := validate.New().Validate(cfg)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUsageError, "invalid configuration", err)
	}
	if len(violations) > 0 {
		return nil, model.NewCLIError(model.ExitUsageError,
			"invalid configuration: "+model.JoinViolations(violations))
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, s.stderr())
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUsageError, "failed to set up logging", err)
	}
	s.log = logger

	s.api = s.app.opts.API
	if s.api == nil {
		s.api = worldtime.NewClient(cfg.BaseURL,
			worldtime.WithTimeout(time.Duration(cfg.Timeout)),
			worldtime.WithUserAgent("worldclock/"+Version),
			worldtime.WithLogger(logger),
		)
	}

	s.log.Debug().Str("base_url", cfg.BaseURL).Str("config", s.flags.configPath).Msg("configuration resolved")
	return closer, nil
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func (s *session) printError(message string, underlying error) {
	w := s.stderr()
	if s.flags.jsonOutput {
		errObj := map[string]any{"message": message}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		writeJSONLine(w, map[string]any{"error": errObj})
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// printChainError is the strategy's error printer. Text mode writes the
// bare message; JSON mode adds the failure title or violations.
func (s *session) printChainError(w io.Writer, state chain.State, err error) {
	if !s.flags.jsonOutput {
		chain.PlainErrors(w, state, err)
		return
	}

	errObj := map[string]any{
		"message": err.Error(),
		"state":   state.String(),
	}
	var detail model.FailureDetail
	if errors.As(err, &detail) {
		errObj["title"] = detail.Title
	}
	var ve *chain.ViolationError
	if errors.As(err, &ve) {
		errObj["command"] = ve.Command
		errObj["violations"] = ve.Violations
	}
	writeJSONLine(w, map[string]any{"error": errObj})
}

// writeJSONLine writes v as compact JSON on a single line, so a failure
// is always exactly one line on stderr.
func writeJSONLine(w io.Writer, v any) {
	data, _ := json.Marshal(v)
	fmt.Fprintln(w, string(data))
}

// writeJSON writes v as indented JSON, used for successful command output.
func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
