package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type Booking struct {
	TripID            string         `json:"trip_id"`
	HotelCheckIn      string         `json:"hotel_check_in,omitempty"`
	CarRentalPickup   string         `json:"car_rental_pickup,omitempty"`
	OtherReservations map[string]any `json:"other_reservations,omitempty"`
}

type DelayInfo struct {
	FlightNumber    string `json:"flight_number"`
	OriginalArrival string `json:"original_arrival"`
	DelayReason     string `json:"delay_reason,omitempty"`
}

type Reservation struct {
	base
}

var _ contractx.Agent = (*Reservation)(nil)

func NewReservation(desc contractx.AgentDescriptor, runtime contractx.AgentRuntime) *Reservation {
	return &Reservation{base: base{desc: desc, runtime: runtime}}
}

func (r *Reservation) AdjustReservations(ctx context.Context, booking Booking, delay DelayInfo, newArrival string) (contractx.Result, error) {
	other := "None"
	if len(booking.OtherReservations) > 0 {
		other = fmt.Sprintf("%v", booking.OtherReservations)
	}

	var b strings.Builder
	b.WriteString("Adjust travel reservations based on flight delay information:\n\n")
	b.WriteString("Original booking details:\n")
	fmt.Fprintf(&b, "- Hotel check-in: %s\n", valueOr(booking.HotelCheckIn, "Not booked"))
	fmt.Fprintf(&b, "- Car rental pickup: %s\n", valueOr(booking.CarRentalPickup, "Not booked"))
	fmt.Fprintf(&b, "- Other reservations: %s\n\n", other)
	b.WriteString("Flight delay details:\n")
	fmt.Fprintf(&b, "- Flight: %s\n", delay.FlightNumber)
	fmt.Fprintf(&b, "- Original arrival: %s\n", valueOr(delay.OriginalArrival, "Unknown"))
	fmt.Fprintf(&b, "- Expected new arrival: %s\n", valueOr(newArrival, "To be determined"))
	fmt.Fprintf(&b, "- Delay reason: %s\n\n", valueOr(delay.DelayReason, "Unknown"))
	b.WriteString("Tasks:\n")
	b.WriteString("1. Analyze if reservations need adjustment based on delay information\n")
	b.WriteString("2. Determine specific changes needed for each reservation\n")
	b.WriteString("3. Draft communication to each provider (hotel, car rental, etc.)\n")
	b.WriteString("4. Identify any potential fees or penalties for changes\n")
	b.WriteString("5. Suggest alternatives if original reservations cannot be modified\n\n")
	b.WriteString("Provide a detailed plan for reservation adjustments with specific actions.")

	return r.submit(ctx, b.String(), map[string]any{
		"booking_data":     booking,
		"delay_info":       delay,
		"new_arrival_time": newArrival,
	})
}

// Invoke has only the flight to go on during a crew run, so booking details
// and the new arrival are left for the agent to determine.
func (r *Reservation) Invoke(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	flight := contractx.FlightFromContext(taskCtx)

	out, err := r.AdjustReservations(ctx,
		Booking{TripID: stringFrom(taskCtx, "trip_id")},
		DelayInfo{
			FlightNumber:    flight.FlightNumber,
			OriginalArrival: flight.ScheduledDeparture,
		},
		"",
	)
	if err != nil {
		return nil, err
	}
	return out.WithRecommendation("Notify hotel about late arrival"), nil
}
