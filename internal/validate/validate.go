// Package validate provides the validator used by the chain executor and
// the shared field rules commands build their Validate methods from.
//
// Field rules are plain func(T) error values so they compose with
// criterio.Run. A command opts into validation by implementing Validatable;
// criterio.FieldErrors returned from it are converted to model.Violation
// values, one per failing field.
package validate

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/shinji-kodama/worldclock/internal/model"
)

// Validatable is implemented by commands (and configuration) that carry
// field constraints.
type Validatable interface {
	Validate() error
}

// Validator checks a populated command instance and reports constraint
// violations. A non-nil error means validation itself could not be
// carried out; callers treat that as inconclusive rather than as a
// violation.
type Validator interface {
	Validate(target any) ([]model.Violation, error)
}

// FieldValidator is the default Validator. It runs the target's own
// Validate method and translates criterio field errors into violations.
type FieldValidator struct{}

// New returns the default Validator.
func New() *FieldValidator {
	return &FieldValidator{}
}

// Validate implements Validator. Targets that do not implement Validatable
// have no constraints and always pass.
func (FieldValidator) Validate(target any) ([]model.Violation, error) {
	v, ok := target.(Validatable)
	if !ok {
		return nil, nil
	}

	err := v.Validate()
	if err == nil {
		return nil, nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validate %T: %w", target, err)
	}

	violations := make([]model.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := ""
		if fe.Err != nil {
			msg = fe.Err.Error()
		}
		violations = append(violations, model.Violation{Path: fe.Field, Message: msg})
	}
	return violations, nil
}

// NotBlank fails when s is empty after trimming whitespace.
func NotBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}

// BlankOr applies rule only when s is non-empty. It is used for optional
// flags that must be well-formed when given.
func BlankOr(rule func(string) error) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		return rule(s)
	}
}

// IPAddress fails when s is not a valid IPv4 or IPv6 address. Surrounding
// whitespace is not accepted, since s is sent to the API verbatim.
func IPAddress(s string) error {
	if net.ParseIP(s) == nil {
		return fmt.Errorf("must be a valid IP address, got %q", s)
	}
	return nil
}

// PathSegment fails when s would not survive as a single URL path segment,
// e.g. "Europe" is fine but "Europe/London" is not.
func PathSegment(s string) error {
	if strings.ContainsAny(s, "/?#") {
		return fmt.Errorf("must not contain '/', '?' or '#', got %q", s)
	}
	return nil
}

// ZonePath fails when s is not a "/"-separated run of non-empty path
// segments, e.g. "London" and "Argentina/Salta" are fine but "Salta/",
// "a//b" and "x?y" are not.
func ZonePath(s string) error {
	if strings.ContainsAny(s, "?#") {
		return fmt.Errorf("must not contain '?' or '#', got %q", s)
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			return fmt.Errorf("must not contain empty segments, got %q", s)
		}
	}
	return nil
}

// HTTPURL fails when s is not an absolute http or https URL.
func HTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", s)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", s)
	}
	return nil
}

// Fields accumulates field failures for one target. Only the first failing
// rule of each field is reported.
//
//	var f validate.Fields
//	f.Check("area", c.area, validate.NotBlank, validate.PathSegment)
//	return f.Err()
type Fields struct {
	errs criterio.FieldErrorsBuilder
}

// Check runs rules against value in order and records the first failure
// under field.
func (f *Fields) Check(field, value string, rules ...func(string) error) {
	for _, rule := range rules {
		if err := rule(value); err != nil {
			f.errs = f.errs.Append(field, err)
			return
		}
	}
}

// Err returns the accumulated criterio.FieldErrors, or nil when every
// check passed.
func (f *Fields) Err() error {
	return f.errs.ToError()
}
