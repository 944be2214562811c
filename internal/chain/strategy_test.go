package chain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
)

// spyCommand counts Execute calls and returns a fixed outcome. It is the
// test double for every business command in this file.
type spyCommand struct {
	calls   int
	outcome model.Outcome[int]
	panics  any
	// violations makes the command fail validation through Validatable.
	violations []model.Violation
}

func (c *spyCommand) Execute(context.Context) model.Outcome[int] {
	c.calls++
	if c.panics != nil {
		panic(c.panics)
	}
	return c.outcome
}

func succeeding() *spyCommand {
	return &spyCommand{outcome: model.Succeed(0)}
}

func failing(msg string) *spyCommand {
	return &spyCommand{outcome: model.Fail[int](model.FailureGeneric.Detail(msg))}
}

// stubValidator returns violations configured on spyCommand targets, or a
// canned error/panic for every target.
type stubValidator struct {
	calls  int
	err    error
	panics bool
}

func (v *stubValidator) Validate(target any) ([]model.Violation, error) {
	v.calls++
	if v.panics {
		panic("validator exploded")
	}
	if v.err != nil {
		return nil, v.err
	}
	if spy, ok := target.(*spyCommand); ok {
		return spy.violations, nil
	}
	return nil, nil
}

// notACommand has no Execute method.
type notACommand struct{}

func links(targets ...any) []Link {
	names := []string{"worldclock", "tz", "ls", "extra"}
	out := make([]Link, 0, len(targets))
	for i, t := range targets {
		out = append(out, Link{Name: names[i], Target: t})
	}
	return out
}

func newTestStrategy(v validate.Validator) (*Strategy, *bytes.Buffer) {
	var stderr bytes.Buffer
	return NewStrategy(v, &stderr, WithLogger(zerolog.Nop())), &stderr
}

func TestStrategy_AllSucceed(t *testing.T) {
	root, sub := succeeding(), &spyCommand{outcome: model.Succeed(3)}
	s, stderr := newTestStrategy(&stubValidator{})

	report := s.Run(context.Background(), Invocation{Links: links(root, sub)})

	assert.Equal(t, StateSucceeded, report.State)
	assert.Equal(t, model.ExitSuccess, report.ExitCode())
	assert.Equal(t, []int{0, 3}, report.Values)
	assert.NoError(t, report.Err)
	assert.Equal(t, 1, root.calls)
	assert.Equal(t, 1, sub.calls)
	assert.Empty(t, stderr.String(), "a successful chain writes nothing to stderr")
}

// TestStrategy_RootOnly verifies that a chain with no subcommand still runs
// the root's own Execute.
func TestStrategy_RootOnly(t *testing.T) {
	root := succeeding()
	s, _ := newTestStrategy(&stubValidator{})

	report := s.Run(context.Background(), Invocation{Links: links(root)})

	assert.Equal(t, StateSucceeded, report.State)
	assert.Equal(t, 1, root.calls)
}

func TestStrategy_Help(t *testing.T) {
	root, sub := succeeding(), succeeding()
	v := &stubValidator{}
	s, stderr := newTestStrategy(v)

	report := s.Run(context.Background(), Invocation{Help: true, Links: links(root, sub)})

	assert.Equal(t, StateHelp, report.State)
	assert.Equal(t, model.ExitSuccess, report.ExitCode())
	assert.Zero(t, v.calls, "help never validates")
	assert.Zero(t, root.calls, "help never executes")
	assert.Zero(t, sub.calls)
	assert.Empty(t, stderr.String())
}

// TestStrategy_ValidationStopsEverything verifies that a violation on any
// link prevents every command, including earlier ones, from executing.
func TestStrategy_ValidationStopsEverything(t *testing.T) {
	root := succeeding()
	sub := succeeding()
	sub.violations = []model.Violation{{Path: "area", Message: "must not be blank"}}
	leaf := succeeding()
	v := &stubValidator{}
	s, stderr := newTestStrategy(v)

	report := s.Run(context.Background(), Invocation{Links: links(root, sub, leaf)})

	assert.Equal(t, StateUsageFailure, report.State)
	assert.Equal(t, model.ExitUsageError, report.ExitCode())
	assert.Equal(t, "area must not be blank\n", stderr.String())
	assert.Equal(t, 2, v.calls, "validation stops at the first invalid link")
	assert.Zero(t, root.calls)
	assert.Zero(t, sub.calls)
	assert.Zero(t, leaf.calls)

	var ve *ViolationError
	require.ErrorAs(t, report.Err, &ve)
	assert.Equal(t, "tz", ve.Command)
}

func TestStrategy_MultipleViolationsJoined(t *testing.T) {
	sub := succeeding()
	sub.violations = []model.Violation{
		{Path: "area", Message: "must not be blank"},
		{Path: "location", Message: "must not be blank"},
	}
	s, stderr := newTestStrategy(&stubValidator{})

	report := s.Run(context.Background(), Invocation{Links: links(succeeding(), sub)})

	assert.Equal(t, StateUsageFailure, report.State)
	assert.Equal(t, "area must not be blank, location must not be blank\n", stderr.String())
}

// TestStrategy_StopOnFirstFailure checks, for every position k, that a
// Failure from command k prevents k+1..n from executing.
func TestStrategy_StopOnFirstFailure(t *testing.T) {
	const n = 4

	for k := 0; k < n; k++ {
		t.Run(links(nil, nil, nil, nil)[k].Name, func(t *testing.T) {
			cmds := make([]*spyCommand, n)
			targets := make([]any, n)
			for i := range cmds {
				if i == k {
					cmds[i] = failing("service unavailable")
				} else {
					cmds[i] = succeeding()
				}
				targets[i] = cmds[i]
			}
			s, stderr := newTestStrategy(&stubValidator{})

			report := s.Run(context.Background(), Invocation{Links: links(targets...)})

			assert.Equal(t, StateBusinessFailure, report.State)
			assert.Equal(t, model.ExitSoftwareError, report.ExitCode())
			assert.Equal(t, "service unavailable\n", stderr.String())
			assert.Len(t, report.Values, k)
			for i, c := range cmds {
				if i <= k {
					assert.Equal(t, 1, c.calls, "command %d should run", i)
				} else {
					assert.Zero(t, c.calls, "command %d must not run", i)
				}
			}

			var detail model.FailureDetail
			require.ErrorAs(t, report.Err, &detail)
			assert.Equal(t, "generic-failure", detail.Title)
		})
	}
}

func TestStrategy_NotACommand(t *testing.T) {
	root := succeeding()
	v := &stubValidator{}
	s, stderr := newTestStrategy(v)

	report := s.Run(context.Background(), Invocation{Links: links(root, notACommand{})})

	assert.Equal(t, StateContractFailure, report.State)
	assert.Equal(t, model.ExitSoftwareError, report.ExitCode())
	assert.Equal(t, 1, v.calls, "only the root was validated")
	assert.Zero(t, root.calls)
	assert.Contains(t, stderr.String(), `command "tz" does not implement Command`)
}

func TestStrategy_EmptyOutcome(t *testing.T) {
	root := succeeding()
	bad := &spyCommand{} // zero Outcome: neither success nor failure
	after := succeeding()
	s, stderr := newTestStrategy(&stubValidator{})

	report := s.Run(context.Background(), Invocation{Links: links(root, bad, after)})

	assert.Equal(t, StateContractFailure, report.State)
	assert.Equal(t, []int{0}, report.Values)
	assert.Zero(t, after.calls)
	assert.Contains(t, stderr.String(), "empty outcome")
}

func TestStrategy_ExecutePanics(t *testing.T) {
	tests := []struct {
		name     string
		panics   any
		wantText string
	}{
		{name: "error value", panics: errors.New("nil pointer"), wantText: "nil pointer"},
		{name: "string value", panics: "index out of range", wantText: "index out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := succeeding()
			s, stderr := newTestStrategy(&stubValidator{})

			report := s.Run(context.Background(), Invocation{
				Links: links(succeeding(), &spyCommand{panics: tt.panics}, after),
			})

			assert.Equal(t, StateContractFailure, report.State)
			assert.Equal(t, model.ExitSoftwareError, report.ExitCode())
			assert.Zero(t, after.calls)

			var ce *ContractError
			require.ErrorAs(t, report.Err, &ce)
			assert.Equal(t, "tz", ce.Command)
			assert.Contains(t, stderr.String(), tt.wantText)
		})
	}
}

// TestStrategy_ValidatorFaultIsInconclusive verifies that validator errors
// and panics do not stop the chain.
func TestStrategy_ValidatorFaultIsInconclusive(t *testing.T) {
	tests := []struct {
		name      string
		validator *stubValidator
	}{
		{name: "error", validator: &stubValidator{err: errors.New("no constraint metadata")}},
		{name: "panic", validator: &stubValidator{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, sub := succeeding(), succeeding()
			var logs bytes.Buffer
			var stderr bytes.Buffer
			s := NewStrategy(tt.validator, &stderr, WithLogger(zerolog.New(&logs)))

			report := s.Run(context.Background(), Invocation{Links: links(root, sub)})

			assert.Equal(t, StateSucceeded, report.State)
			assert.Equal(t, 2, tt.validator.calls)
			assert.Equal(t, 1, root.calls)
			assert.Equal(t, 1, sub.calls)
			assert.Empty(t, stderr.String())
			assert.Contains(t, logs.String(), "validation inconclusive")
		})
	}
}

func TestStrategy_ErrorPrinter(t *testing.T) {
	var gotState State
	var gotErr error
	printer := func(w io.Writer, state State, err error) {
		gotState, gotErr = state, err
		_, _ = w.Write([]byte("custom\n"))
	}
	var stderr bytes.Buffer
	s := NewStrategy(&stubValidator{}, &stderr, WithErrorPrinter(printer))

	s.Run(context.Background(), Invocation{Links: links(failing("down"))})

	assert.Equal(t, StateBusinessFailure, gotState)
	assert.EqualError(t, gotErr, "down")
	assert.Equal(t, "custom\n", stderr.String())
}

// TestStrategy_WithFieldValidator runs the real validator against a command
// that implements validate.Validatable.
func TestStrategy_WithFieldValidator(t *testing.T) {
	cmd := &blankAreaCommand{}
	var stderr bytes.Buffer
	s := NewStrategy(validate.New(), &stderr)

	report := s.Run(context.Background(), Invocation{Links: []Link{{Name: "time", Target: cmd}}})

	assert.Equal(t, StateUsageFailure, report.State)
	assert.Equal(t, "area must not be blank\n", stderr.String())
	assert.False(t, cmd.ran)
}

type blankAreaCommand struct {
	area string
	ran  bool
}

func (c *blankAreaCommand) Validate() error {
	var f validate.Fields
	f.Check("area", c.area, validate.NotBlank)
	return f.Err()
}

func (c *blankAreaCommand) Execute(context.Context) model.Outcome[int] {
	c.ran = true
	return model.Succeed(0)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		state State
		want  model.ExitCode
	}{
		{StateHelp, model.ExitSuccess},
		{StateSucceeded, model.ExitSuccess},
		{StateUsageFailure, model.ExitUsageError},
		{StateContractFailure, model.ExitSoftwareError},
		{StateBusinessFailure, model.ExitSoftwareError},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.state))
		})
	}
}
