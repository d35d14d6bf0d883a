package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type CalendarEvent struct {
	Title        string `json:"title"`
	OriginalTime string `json:"original_time"`
	Location     string `json:"location"`
}

type Contact struct {
	Name             string `json:"name" yaml:"name"`
	Role             string `json:"role" yaml:"role"`
	PreferredContact string `json:"preferred_contact,omitempty" yaml:"preferred_contact"`
}

// Notice is everything the notifier needs to brief stakeholders.
type Notice struct {
	TripID        string        `json:"trip_id"`
	CalendarEvent CalendarEvent `json:"calendar_event"`
	Contacts      []Contact     `json:"contacts"`
	UpdatedETA    string        `json:"updated_eta"`
	DelayReason   string        `json:"delay_reason"`
}

type Notifier struct {
	base
}

var _ contractx.Agent = (*Notifier)(nil)

func NewNotifier(desc contractx.AgentDescriptor, runtime contractx.AgentRuntime) *Notifier {
	return &Notifier{base: base{desc: desc, runtime: runtime}}
}

func (n *Notifier) NotifyStakeholders(ctx context.Context, notice Notice) (contractx.Result, error) {
	reason := valueOr(notice.DelayReason, "Unknown")

	var b strings.Builder
	b.WriteString("Create and send notifications to all stakeholders about flight delay:\n\n")
	b.WriteString("Event details:\n")
	fmt.Fprintf(&b, "- Event: %s\n", valueOr(notice.CalendarEvent.Title, "None"))
	fmt.Fprintf(&b, "- Original time: %s\n", valueOr(notice.CalendarEvent.OriginalTime, "Unknown"))
	fmt.Fprintf(&b, "- Location: %s\n\n", valueOr(notice.CalendarEvent.Location, "Unknown"))
	b.WriteString("Delay details:\n")
	fmt.Fprintf(&b, "- Updated ETA: %s\n", valueOr(notice.UpdatedETA, "To be determined"))
	fmt.Fprintf(&b, "- Reason for delay: %s\n\n", reason)
	b.WriteString("Stakeholders to notify:\n")
	b.WriteString(formatContacts(notice.Contacts))
	b.WriteString("\nTasks:\n")
	b.WriteString("1. Craft appropriate messages for each stakeholder category (meeting attendees, hosts, etc.)\n")
	b.WriteString("2. Prioritize notifications based on urgency and impact\n")
	b.WriteString("3. Suggest appropriate communication channels for each stakeholder (email, SMS, etc.)\n")
	b.WriteString("4. Draft follow-up communications if needed\n\n")
	b.WriteString("Provide the notification plan and message drafts for each stakeholder group.")

	return n.submit(ctx, b.String(), map[string]any{
		"trip_id":        notice.TripID,
		"calendar_event": notice.CalendarEvent,
		"contacts":       notice.Contacts,
		"updated_eta":    notice.UpdatedETA,
		"delay_reason":   reason,
	})
}

func (n *Notifier) Invoke(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	flight := contractx.FlightFromContext(taskCtx)

	out, err := n.NotifyStakeholders(ctx, Notice{
		TripID: stringFrom(taskCtx, "trip_id"),
		CalendarEvent: CalendarEvent{
			Title:        fmt.Sprintf("Arrival of flight %s", flight.FlightNumber),
			OriginalTime: flight.ScheduledDeparture,
			Location:     flight.Destination,
		},
	})
	if err != nil {
		return nil, err
	}
	return out.WithRecommendation("Update calendar events"), nil
}

func formatContacts(contacts []Contact) string {
	if len(contacts) == 0 {
		return "- No contacts on file\n"
	}
	var b strings.Builder
	for i, c := range contacts {
		fmt.Fprintf(&b, "- Contact %d: %s (%s), Preferred contact: %s\n",
			i+1, c.Name, c.Role, valueOr(c.PreferredContact, "Email"))
	}
	return b.String()
}
