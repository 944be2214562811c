package chain

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
)

// Command is the contract every link target must implement. The returned
// integer is a per-command status, not the process exit code.
type Command interface {
	Execute(ctx context.Context) model.Outcome[int]
}

// Link is one element of a chain: the command name as typed on the command
// line and the object that carries its parsed flags.
type Link struct {
	Name   string
	Target any
}

// Invocation is the parsed input for one run.
type Invocation struct {
	// Help is set when the user asked for help (or version) at any level.
	Help bool

	// Links is the chain, root first, leaf last.
	Links []Link
}

// Report is the result of one run.
type Report struct {
	State State

	// Values holds the status of each command that succeeded, in order.
	Values []int

	// Err describes why the run did not succeed. It is a *ViolationError,
	// a model.FailureDetail, or a *ContractError depending on State.
	Err error
}

// ExitCode is shorthand for ExitCode(r.State).
func (r Report) ExitCode() model.ExitCode {
	return ExitCode(r.State)
}

// ViolationError reports the validation violations of one command.
type ViolationError struct {
	Command    string
	Violations []model.Violation
}

func (e *ViolationError) Error() string {
	return model.JoinViolations(e.Violations)
}

// ContractError reports a link that did not honor the Command contract.
type ContractError struct {
	Command string
	Reason  string
	Err     error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("command %q %s", e.Command, e.Reason)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// ErrorPrinter writes the single stderr line for a terminal failure.
type ErrorPrinter func(w io.Writer, state State, err error)

// PlainErrors writes err's message on its own line.
func PlainErrors(w io.Writer, _ State, err error) {
	fmt.Fprintln(w, err.Error())
}

// Strategy validates and then executes a chain, stopping at the first
// failure.
type Strategy struct {
	validator validate.Validator
	log       zerolog.Logger
	stderr    io.Writer
	printErr  ErrorPrinter
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Strategy) { s.log = l }
}

// WithErrorPrinter replaces PlainErrors, e.g. for JSON error output.
func WithErrorPrinter(p ErrorPrinter) Option {
	return func(s *Strategy) { s.printErr = p }
}

// NewStrategy returns a Strategy that validates with v and writes failure
// messages to stderr.
func NewStrategy(v validate.Validator, stderr io.Writer, opts ...Option) *Strategy {
	s := &Strategy{
		validator: v,
		log:       zerolog.Nop(),
		stderr:    stderr,
		printErr:  PlainErrors,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives one invocation to its terminal state.
func (s *Strategy) Run(ctx context.Context, inv Invocation) Report {
	if inv.Help {
		s.log.Debug().Msg("help requested, skipping chain")
		return Report{State: StateHelp}
	}

	s.log.Debug().Int("links", len(inv.Links)).Msg("validating chain")

	commands := make([]Command, 0, len(inv.Links))
	for _, link := range inv.Links {
		cmd, ok := link.Target.(Command)
		if !ok {
			err := &ContractError{Command: link.Name, Reason: fmt.Sprintf("does not implement Command (%T)", link.Target)}
			return s.done(StateContractFailure, link.Name, nil, err)
		}

		violations, err := s.validateLink(link)
		if err != nil {
			// Validator infrastructure faults are inconclusive, not fatal.
			s.log.Warn().Err(err).Str("command", link.Name).Msg("validation inconclusive")
		} else if len(violations) > 0 {
			return s.done(StateUsageFailure, link.Name, nil, &ViolationError{Command: link.Name, Violations: violations})
		}

		commands = append(commands, cmd)
	}

	s.log.Debug().Msg("executing chain")

	values := make([]int, 0, len(commands))
	for i, cmd := range commands {
		name := inv.Links[i].Name

		outcome, err := s.executeLink(ctx, name, cmd)
		if err != nil {
			return s.done(StateContractFailure, name, values, err)
		}

		if !outcome.IsValid() {
			return s.done(StateContractFailure, name, values, &ContractError{Command: name, Reason: "returned an empty outcome"})
		}

		if outcome.IsFailure() {
			detail, _ := outcome.Failure()
			return s.done(StateBusinessFailure, name, values, detail)
		}

		v, _ := outcome.Value()
		values = append(values, v)
		s.log.Debug().Str("command", name).Int("status", v).Msg("command succeeded")
	}

	return s.done(StateSucceeded, "", values, nil)
}

// validateLink calls the validator, converting a panic into an error so it
// is handled like any other inconclusive validation.
func (s *Strategy) validateLink(link Link) (violations []model.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			err = fmt.Errorf("validator panicked: %v", r)
		}
	}()
	return s.validator.Validate(link.Target)
}

// executeLink calls Execute, converting a panic into a ContractError that
// names the command.
func (s *Strategy) executeLink(ctx context.Context, name string, cmd Command) (outcome model.Outcome[int], err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &ContractError{Command: name, Reason: "panicked", Err: cause}
		}
	}()
	return cmd.Execute(ctx), nil
}

// done records the terminal state, reports the failure (if any) on stderr
// and builds the Report.
func (s *Strategy) done(state State, command string, values []int, err error) Report {
	ev := s.log.Debug()
	if err != nil {
		ev = s.log.Error().Err(err)
		s.printErr(s.stderr, state, err)
	}
	if command != "" {
		ev = ev.Str("command", command)
	}
	ev.Str("state", state.String()).Int("exit_code", int(ExitCode(state))).Msg("chain done")

	return Report{State: state, Values: values, Err: err}
}
