package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

// newAskCmd creates the "flightcrew ask" subcommand.
func newAskCmd() *cobra.Command {
	var (
		flight contractx.FlightInfo
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Route a single traveler question to the matching agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history := []contractx.ChatMessage{{Role: contractx.RoleUser, Content: strings.Join(args, " ")}}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				res, err := a.router.Route(ctx, history, normalizeFlight(flight))
				if err != nil {
					return fmt.Errorf("ask: %w", err)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Reply)
				return nil
			})
		},
	}

	bindFlightFlags(cmd, &flight)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply with the raw agent result as JSON")
	return cmd
}
