// Package cli — tz.go implements the "worldclock tz" command.
//
// The tz command lists timezone identifiers. Without flags it lists every
// identifier WorldTimeAPI knows; with --area it lists only the locations
// in that area (e.g. --area Europe). "tz ls" is a nested subcommand that
// lists every identifier; when it runs, tz itself only passes through.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
)

// tzCommand is the chain object of the tz command.
type tzCommand struct {
	s *session

	// area restricts the listing to one area. Only checked when areaSet.
	area    string
	areaSet bool

	// leaf is true when tz is the invoked command rather than the parent
	// of "tz ls".
	leaf bool
}

// newTZCommand creates the "tz" cobra command.
// It is called from newRootCommand to register as a subcommand.
func (s *session) newTZCommand() *cobra.Command {
	target := &tzCommand{s: s}

	cmd := &cobra.Command{
		Use:   "tz",
		Short: "List timezones",
		Long: `List timezone identifiers known to WorldTimeAPI.

Examples:
  worldclock tz
  worldclock tz --area Europe
  worldclock tz --json
  worldclock tz ls`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			target.leaf = true
			target.areaSet = cmd.Flags().Changed("area")
			return s.runChain(cmd)
		},
	}

	cmd.Flags().StringVar(&target.area, "area", "", "Only list locations in this area (e.g. Europe)")
	cmd.AddCommand(s.newTZListCommand())

	return s.bind(cmd, target)
}

// Validate implements validate.Validatable.
func (c *tzCommand) Validate() error {
	if !c.areaSet {
		return nil
	}
	var f validate.Fields
	f.Check("area", c.area, validate.NotBlank, validate.PathSegment)
	return f.Err()
}

// Execute implements chain.Command.
func (c *tzCommand) Execute(ctx context.Context) model.Outcome[int] {
	if !c.leaf {
		return model.Succeed(0)
	}

	var (
		zones []string
		err   error
	)
	if c.areaSet {
		zones, err = c.s.api.ListLocationsInArea(ctx, c.area)
	} else {
		zones, err = c.s.api.ListTimezones(ctx)
	}
	if err != nil {
		return model.Fail[int](apiFailure(err))
	}

	printTimezones(c.s, zones)
	return model.Succeed(0)
}

// tzListCommand is the chain object of "tz ls".
type tzListCommand struct {
	s *session
}

// newTZListCommand creates the "ls" cobra command nested under tz.
func (s *session) newTZListCommand() *cobra.Command {
	target := &tzListCommand{s: s}

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List every timezone",
		Long: `List every timezone identifier known to WorldTimeAPI.

Examples:
  worldclock tz ls
  worldclock -v tz ls`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runChain(cmd)
		},
	}

	return s.bind(cmd, target)
}

// Execute implements chain.Command.
func (c *tzListCommand) Execute(ctx context.Context) model.Outcome[int] {
	zones, err := c.s.api.ListTimezones(ctx)
	if err != nil {
		return model.Fail[int](apiFailure(err))
	}

	printTimezones(c.s, zones)
	return model.Succeed(0)
}

// printTimezones outputs the identifiers in text or JSON format.
//
// The text format is a header line followed by one identifier per line:
//
//	Timezones:
//	Africa/Abidjan
//	Africa/Accra
func printTimezones(s *session, zones []string) {
	if s.flags.jsonOutput {
		// Use an empty slice so JSON shows [] instead of null.
		if zones == nil {
			zones = []string{}
		}
		writeJSON(s.stdout(), map[string]any{"timezones": zones})
		return
	}

	fmt.Fprintln(s.stdout(), "Timezones:")
	for _, z := range zones {
		fmt.Fprintln(s.stdout(), z)
	}
}
