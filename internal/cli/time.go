// Package cli — time.go implements the "worldclock time" command.
//
// The time command shows the current time in one timezone, identified by
// its area and location (e.g. --area Europe --location London).
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
)

// timeCommand is the chain object of the time command.
type timeCommand struct {
	s *session

	area     string
	location string
}

// newTimeCommand creates the "time" cobra command.
func (s *session) newTimeCommand() *cobra.Command {
	target := &timeCommand{s: s}

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Show the current time in a timezone",
		Long: `Show the current time, UTC offset and DST state of a timezone.

Examples:
  worldclock time --area Europe --location London
  worldclock time --area America --location Argentina/Salta
  worldclock time --area America --location New_York --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runChain(cmd)
		},
	}

	// Both flags are checked by Validate rather than MarkFlagRequired, so a
	// missing value is reported as a violation like any other.
	cmd.Flags().StringVar(&target.area, "area", "", "Timezone area (e.g. Europe)")
	cmd.Flags().StringVar(&target.location, "location", "", "Timezone location (e.g. London)")

	return s.bind(cmd, target)
}

// Validate implements validate.Validatable.
func (c *timeCommand) Validate() error {
	var f validate.Fields
	f.Check("area", c.area, validate.NotBlank, validate.PathSegment)
	// Locations may be nested, e.g. Argentina/Salta.
	f.Check("location", c.location, validate.NotBlank, validate.ZonePath)
	return f.Err()
}

// Execute implements chain.Command.
func (c *timeCommand) Execute(ctx context.Context) model.Outcome[int] {
	info, err := c.s.api.GetTimeForLocation(ctx, c.area, c.location)
	if err != nil {
		return model.Fail[int](apiFailure(err))
	}

	printTimeInfo(c.s, info, []infoField{
		{"Timezone", "timezone"},
		{"Datetime", "datetime"},
		{"UTC offset", "utc_offset"},
		{"Abbreviation", "abbreviation"},
		{"DST", "dst"},
	})
	return model.Succeed(0)
}
