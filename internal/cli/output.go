package cli

import (
	"errors"
	"fmt"

	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/worldtime"
)

// infoField maps a display label to a key of a WorldTimeAPI time object.
type infoField struct {
	label string
	key   string
}

// printTimeInfo outputs the selected fields of a time object. Text mode
// prints "Label: value" lines with "-" for missing keys; JSON mode prints
// the selected keys as an object.
func printTimeInfo(s *session, info map[string]any, fields []infoField) {
	if s.flags.jsonOutput {
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := info[f.key]; ok {
				out[f.key] = v
			}
		}
		writeJSON(s.stdout(), out)
		return
	}

	for _, f := range fields {
		v, ok := info[f.key]
		if !ok || v == nil {
			v = "-"
		}
		fmt.Fprintf(s.stdout(), "%s: %v\n", f.label, v)
	}
}

// apiFailure converts a client error into a catalog FailureDetail.
func apiFailure(err error) model.FailureDetail {
	var statusErr *worldtime.StatusError
	if errors.As(err, &statusErr) {
		return model.FailureAPIBadStatus.Wrap(err, statusErr.Endpoint, statusErr.StatusCode)
	}

	var decodeErr *worldtime.DecodeError
	if errors.As(err, &decodeErr) {
		return model.FailureAPIBadPayload.Wrap(err, decodeErr.Endpoint, decodeErr.Err)
	}

	return model.FailureAPIUnreachable.Wrap(err, "WorldTimeAPI", err)
}
