package chain

import (
	"github.com/shinji-kodama/worldclock/internal/model"
)

// State is the terminal state of one chain run.
type State int

const (
	// StateSucceeded means every command in the chain returned a Success.
	StateSucceeded State = iota

	// StateHelp means the invocation was a help request; nothing was
	// validated or executed.
	StateHelp

	// StateUsageFailure means a command failed validation.
	StateUsageFailure

	// StateContractFailure means a link did not implement Command, returned
	// a malformed Outcome, or panicked.
	StateContractFailure

	// StateBusinessFailure means a command executed and returned a Failure.
	StateBusinessFailure
)

// String returns the state name used in logs and tests.
func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateHelp:
		return "help"
	case StateUsageFailure:
		return "usage-failure"
	case StateContractFailure:
		return "contract-failure"
	case StateBusinessFailure:
		return "business-failure"
	default:
		return "unknown"
	}
}

// ExitCode maps a terminal state to the process exit code.
//
//	help              → 0
//	contract failure  → 1
//	usage failure     → 2
//	business failure  → 1
//	succeeded         → 0
func ExitCode(s State) model.ExitCode {
	switch s {
	case StateHelp, StateSucceeded:
		return model.ExitSuccess
	case StateUsageFailure:
		return model.ExitUsageError
	default:
		return model.ExitSoftwareError
	}
}
