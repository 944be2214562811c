package model

import (
	"fmt"
)

// FailureDetail describes why a command failed. Title is a stable,
// machine-friendly identifier taken from the FailureKind catalog; Message
// is the formatted human-readable text written to stderr.
type FailureDetail struct {
	Title   string `json:"title"`
	Message string `json:"message"`

	// Cause is the underlying error, if the failure wraps one.
	Cause error `json:"-"`
}

// Error satisfies the error interface so a FailureDetail can travel
// through ordinary error plumbing (logging, errors.As).
func (d FailureDetail) Error() string {
	return d.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (d FailureDetail) Unwrap() error {
	return d.Cause
}

// FailureKind is one entry of the failure catalog: a stable title and a
// message template with positional fmt verbs.
type FailureKind struct {
	Title    string
	Template string
}

// The failure catalog. Titles are part of the --json output and must not
// change once released.
var (
	// FailureGeneric carries a caller-supplied message verbatim.
	FailureGeneric = FailureKind{Title: "generic-failure", Template: "%s"}

	// FailureGenericException wraps an error nobody anticipated.
	FailureGenericException = FailureKind{Title: "generic-exception-failure", Template: "unexpected error: %v"}

	// FailureAPIUnreachable reports a transport-level error talking to the API.
	// Arguments: endpoint, error.
	FailureAPIUnreachable = FailureKind{Title: "api-unreachable", Template: "unable to reach %s: %v"}

	// FailureAPIBadStatus reports a non-2xx HTTP response.
	// Arguments: endpoint, status code.
	FailureAPIBadStatus = FailureKind{Title: "api-bad-status", Template: "%s returned HTTP %d"}

	// FailureAPIBadPayload reports a response body that could not be decoded.
	// Arguments: endpoint, error.
	FailureAPIBadPayload = FailureKind{Title: "api-bad-payload", Template: "unable to decode response from %s: %v"}
)

// Detail formats the kind's template with args into a FailureDetail.
func (k FailureKind) Detail(args ...any) FailureDetail {
	return FailureDetail{
		Title:   k.Title,
		Message: fmt.Sprintf(k.Template, args...),
	}
}

// Wrap is like Detail but also records cause as the underlying error.
func (k FailureKind) Wrap(cause error, args ...any) FailureDetail {
	d := k.Detail(args...)
	d.Cause = cause
	return d
}

// FailureFromError wraps an unexpected error into a FailureDetail using
// the generic exception kind.
func FailureFromError(err error) FailureDetail {
	return FailureGenericException.Wrap(err, err)
}
