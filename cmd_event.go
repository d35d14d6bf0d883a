package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

// newEventCmd creates the "flightcrew event" subcommand.
func newEventCmd() *cobra.Command {
	var (
		flight contractx.FlightInfo
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "event",
		Short: "Run the whole crew against a flight delay event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				res, err := a.crew.HandleEvent(ctx, normalizeFlight(flight))
				if err != nil {
					return fmt.Errorf("event: %w", err)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				printCrewResult(cmd, res)
				return nil
			})
		},
	}

	bindFlightFlags(cmd, &flight)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printCrewResult(cmd *cobra.Command, res contractx.CrewResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Trip %s (trace %s)\n", res.TripID, res.TraceID)
	fmt.Fprintf(w, "Flight %s %s -> %s: %s\n", res.Flight, res.Origin, res.Destination, res.Status)
	if res.DelayStatus != "" {
		fmt.Fprintf(w, "Delay analysis: %s\n", res.DelayStatus)
	}
	fmt.Fprintf(w, "Reason: %s\n", res.DelayReason)
	fmt.Fprintf(w, "Estimated delay: %s\n", res.EstimatedDelay)

	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, rec := range res.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}

	var failed []string
	for _, c := range res.Contributions {
		if c.Failed {
			failed = append(failed, fmt.Sprintf("%s (%s)", c.Agent, c.Error))
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "Failed agents: %s\n", strings.Join(failed, "; "))
	}
}
