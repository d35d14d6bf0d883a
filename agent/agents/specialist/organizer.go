package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type TripDetails struct {
	TravelerName string `json:"traveler_name"`
	TripID       string `json:"trip_id"`
	TravelDates  string `json:"travel_dates"`
	Destination  string `json:"destination"`
}

type Document struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type StatusUpdate struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

type Organizer struct {
	base
}

var _ contractx.TravelAdvisor = (*Organizer)(nil)

func NewOrganizer(desc contractx.AgentDescriptor, runtime contractx.AgentRuntime) *Organizer {
	return &Organizer{base: base{desc: desc, runtime: runtime}}
}

func (o *Organizer) OrganizeDocuments(ctx context.Context, trip TripDetails, documents []Document, updates []StatusUpdate) (contractx.Result, error) {
	var b strings.Builder
	b.WriteString("Organize all travel documents and updates in a structured folder system:\n\n")
	b.WriteString("Booking details:\n")
	fmt.Fprintf(&b, "- Traveler: %s\n", valueOr(trip.TravelerName, "Unknown"))
	fmt.Fprintf(&b, "- Trip ID: %s\n", valueOr(trip.TripID, "Unknown"))
	fmt.Fprintf(&b, "- Dates: %s\n", valueOr(trip.TravelDates, "Unknown"))
	fmt.Fprintf(&b, "- Destination: %s\n\n", valueOr(trip.Destination, "Unknown"))
	b.WriteString("Documents to organize:\n")
	if len(documents) == 0 {
		b.WriteString("- No documents on file\n")
	}
	for i, doc := range documents {
		fmt.Fprintf(&b, "- Document %d: %s (%s)\n", i+1, doc.Name, doc.Type)
	}
	if len(updates) > 0 {
		b.WriteString("\nStatus Updates:\n")
		for i, u := range updates {
			fmt.Fprintf(&b, "- Update %d: %s - %s\n", i+1, u.Timestamp, u.Status)
		}
	}
	b.WriteString("\nTasks:\n")
	b.WriteString("1. Design a logical folder structure for organizing all travel documents\n")
	b.WriteString("2. Create a naming convention for files to ensure easy identification\n")
	b.WriteString("3. Establish a status log format to track all changes and updates\n")
	b.WriteString("4. Develop a system for flagging important documents that need attention\n")
	b.WriteString("5. Create a summary document providing an overview of the trip status\n\n")
	b.WriteString("Provide a detailed plan for organizing all travel documents with folder structure and naming conventions.")

	if updates == nil {
		updates = []StatusUpdate{}
	}
	if documents == nil {
		documents = []Document{}
	}
	return o.submit(ctx, b.String(), map[string]any{
		"booking_details": trip,
		"documents":       documents,
		"status_updates":  updates,
	})
}

// AdviseTravel answers a free-form traveler request about a flight.
func (o *Organizer) AdviseTravel(ctx context.Context, flight contractx.FlightInfo, request string) (map[string]any, error) {
	task := fmt.Sprintf(
		"Provide general travel advice for flight %s from %s to %s departing %s.\n\nTraveler request: %s",
		flight.FlightNumber, valueOr(flight.Origin, "Unknown"), valueOr(flight.Destination, "Unknown"),
		valueOr(flight.ScheduledDeparture, "Unknown"), strings.TrimSpace(request),
	)

	out, err := o.submit(ctx, task, flight.Context())
	if err != nil {
		return nil, err
	}

	advice, _ := out[contractx.ResultKeyResult].(string)
	return map[string]any{
		"flight_number": flight.FlightNumber,
		"request":       request,
		"advice":        strings.TrimSpace(advice),
	}, nil
}

func (o *Organizer) Invoke(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	flight := contractx.FlightFromContext(taskCtx)

	return o.OrganizeDocuments(ctx, TripDetails{
		TripID:      stringFrom(taskCtx, "trip_id"),
		TravelDates: flight.ScheduledDeparture,
		Destination: flight.Destination,
	}, nil, []StatusUpdate{{Timestamp: flight.ScheduledDeparture, Status: valueOr(flight.CurrentStatus, "SCHEDULED")}})
}
