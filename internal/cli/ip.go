// Package cli — ip.go implements the "worldclock ip" command.
//
// The ip command resolves the timezone of an IP address. Without an
// argument it looks up the caller's public address.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/worldclock/internal/model"
	"github.com/shinji-kodama/worldclock/internal/validate"
)

// ipCommand is the chain object of the ip command.
type ipCommand struct {
	s *session

	// address is the IP to look up; empty means the caller's address.
	address string
}

// newIPCommand creates the "ip" cobra command.
func (s *session) newIPCommand() *cobra.Command {
	target := &ipCommand{s: s}

	cmd := &cobra.Command{
		Use:   "ip [address]",
		Short: "Look up the timezone of an IP address",
		Long: `Look up the timezone and current time for an IP address.

Examples:
  worldclock ip
  worldclock ip 8.8.8.8`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				target.address = args[0]
			}
			return s.runChain(cmd)
		},
	}

	return s.bind(cmd, target)
}

// Validate implements validate.Validatable.
func (c *ipCommand) Validate() error {
	var f validate.Fields
	f.Check("address", c.address, validate.BlankOr(validate.IPAddress))
	return f.Err()
}

// Execute implements chain.Command.
func (c *ipCommand) Execute(ctx context.Context) model.Outcome[int] {
	info, err := c.s.api.LookupIP(ctx, c.address)
	if err != nil {
		return model.Fail[int](apiFailure(err))
	}

	printTimeInfo(c.s, info, []infoField{
		{"IP", "client_ip"},
		{"Timezone", "timezone"},
		{"Datetime", "datetime"},
		{"UTC offset", "utc_offset"},
	})
	return model.Succeed(0)
}
