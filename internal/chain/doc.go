// Package chain executes a parsed command chain: the root command followed
// by the nested subcommands the user invoked.
//
// Execution is a small forward-only state machine:
//
//	Validating → Executing → Done(state)
//
// Every link is validated before any link executes. Execution runs root
// first and stops at the first failure. The terminal State maps to a
// process exit code through ExitCode.
//
// The Strategy is the single place where faults from commands and the
// validator are caught and classified; nothing is retried.
package chain
