// Package model defines the domain types and value objects for the
// worldclock CLI.
//
// This package contains pure data structures with no external dependencies.
// It provides the two-case Outcome type every command returns, the
// FailureDetail/FailureKind catalog used to describe business failures,
// the Violation type produced by validation, and the process exit codes
// (ExitCode) together with CLIError, an error type that carries an exit code.
package model
