package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	specialistx "github.com/tanpawarit/flight-delay-crew/agent/agents/specialist"
	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

const adjustReservationsTask = "adjust_reservations"

// newReserveCmd creates the "flightcrew reserve" subcommand. It hands real
// booking details to the reservation adjuster.
func newReserveCmd() *cobra.Command {
	var (
		flight     contractx.FlightInfo
		booking    specialistx.Booking
		delay      specialistx.DelayInfo
		other      map[string]string
		newArrival string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Plan reservation changes for a delayed flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				f := normalizeFlight(flight)
				adjuster, ok := specialistx.ReservationFrom(a.registry)
				if !ok {
					return fmt.Errorf("reserve: %w: roster has no %s agent", contractx.ErrValidation, contractx.AgentKindReservation)
				}

				b := booking
				if len(other) > 0 {
					b.OtherReservations = make(map[string]any, len(other))
					for k, v := range other {
						b.OtherReservations[k] = v
					}
				}
				d := delay
				d.FlightNumber = f.FlightNumber
				if d.OriginalArrival == "" {
					d.OriginalArrival = f.ScheduledDeparture
				}
				if d.DelayReason == "" {
					reason, err := a.delayReason(ctx, f)
					if err != nil {
						return fmt.Errorf("reserve: %w", err)
					}
					d.DelayReason = reason
				}

				res, err := adjuster.AdjustReservations(ctx, b, d, newArrival)
				if err != nil {
					return fmt.Errorf("reserve: %w", err)
				}
				a.recordDirect(ctx, adjuster.Descriptor().Name, adjustReservationsTask, res, f)
				return printSpecialistResult(cmd, res, asJSON)
			})
		},
	}

	bindFlightFlags(cmd, &flight)
	cmd.Flags().StringVar(&booking.TripID, "trip", "", "trip id the booking belongs to")
	cmd.Flags().StringVar(&booking.HotelCheckIn, "hotel-check-in", "", "hotel check-in time")
	cmd.Flags().StringVar(&booking.CarRentalPickup, "car-pickup", "", "car rental pickup time")
	cmd.Flags().StringToStringVar(&other, "other", nil, "other reservations as name=details")
	cmd.Flags().StringVar(&delay.OriginalArrival, "arrival", "", "original arrival time (default: --departure)")
	cmd.Flags().StringVar(&delay.DelayReason, "reason", "", "delay reason (default: ask the delay analyzer)")
	cmd.Flags().StringVar(&newArrival, "new-arrival", "", "expected new arrival time")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full agent result as JSON")
	return cmd
}

func printSpecialistResult(cmd *cobra.Command, res contractx.Result, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res[contractx.ResultKeyResult])
	if rec := res.Recommendation(); rec != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Next: %s\n", rec)
	}
	return nil
}
