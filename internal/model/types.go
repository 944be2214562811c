package model

import (
	"fmt"
)

// ExitCode defines the process exit codes of the worldclock CLI.
// Scripts and CI systems can rely on these values to distinguish a
// user input problem from a failure inside a command.
type ExitCode int

const (
	// ExitSuccess indicates every command in the chain completed successfully,
	// or a help/version request was served.
	ExitSuccess ExitCode = 0

	// ExitSoftwareError indicates a command failed, a command did not honor
	// its result contract, or an unexpected fault was recovered.
	ExitSoftwareError ExitCode = 1

	// ExitUsageError indicates the user supplied invalid input: a flag or
	// argument could not be parsed, or a command failed validation.
	// Fixing the input and retrying is expected to succeed.
	ExitUsageError ExitCode = 2
)

// String returns a short label for the exit code, used in debug logging.
func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "ok"
	case ExitSoftwareError:
		return "software-error"
	case ExitUsageError:
		return "usage-error"
	default:
		return fmt.Sprintf("exit-%d", int(c))
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate errors raised outside the
// command chain (configuration loading, argument parsing) into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
