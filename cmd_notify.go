package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	specialistx "github.com/tanpawarit/flight-delay-crew/agent/agents/specialist"
	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

const notifyStakeholdersTask = "notify_stakeholders"

// newNotifyCmd creates the "flightcrew notify" subcommand. Contacts come
// from --contact flags and an optional YAML or JSON file.
func newNotifyCmd() *cobra.Command {
	var (
		flight       contractx.FlightInfo
		notice       specialistx.Notice
		contactFlags []string
		contactsFile string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Draft stakeholder notifications for a delayed flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := loadContacts(contactsFile, contactFlags)
			if err != nil {
				return fmt.Errorf("notify: %w", err)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				f := normalizeFlight(flight)
				notifier, ok := specialistx.NotifierFrom(a.registry)
				if !ok {
					return fmt.Errorf("notify: %w: roster has no %s agent", contractx.ErrValidation, contractx.AgentKindNotifier)
				}

				n := notice
				n.Contacts = contacts
				if n.CalendarEvent.Title == "" {
					n.CalendarEvent.Title = fmt.Sprintf("Arrival of flight %s", f.FlightNumber)
				}
				if n.CalendarEvent.OriginalTime == "" {
					n.CalendarEvent.OriginalTime = f.ScheduledDeparture
				}
				if n.CalendarEvent.Location == "" {
					n.CalendarEvent.Location = f.Destination
				}
				if n.DelayReason == "" {
					reason, err := a.delayReason(ctx, f)
					if err != nil {
						return fmt.Errorf("notify: %w", err)
					}
					n.DelayReason = reason
				}

				res, err := notifier.NotifyStakeholders(ctx, n)
				if err != nil {
					return fmt.Errorf("notify: %w", err)
				}
				a.recordDirect(ctx, notifier.Descriptor().Name, notifyStakeholdersTask, res, f)
				return printSpecialistResult(cmd, res, asJSON)
			})
		},
	}

	bindFlightFlags(cmd, &flight)
	cmd.Flags().StringVar(&notice.TripID, "trip", "", "trip id")
	cmd.Flags().StringVar(&notice.CalendarEvent.Title, "event", "", "affected calendar event (default: the arrival)")
	cmd.Flags().StringVar(&notice.CalendarEvent.OriginalTime, "event-time", "", "original event time (default: --departure)")
	cmd.Flags().StringVar(&notice.CalendarEvent.Location, "event-location", "", "event location (default: --destination)")
	cmd.Flags().StringVar(&notice.UpdatedETA, "eta", "", "updated arrival estimate")
	cmd.Flags().StringVar(&notice.DelayReason, "reason", "", "delay reason (default: ask the delay analyzer)")
	cmd.Flags().StringArrayVar(&contactFlags, "contact", nil, "contact as name:role[:preferred channel], repeatable")
	cmd.Flags().StringVar(&contactsFile, "contacts", "", "YAML or JSON file with a list of contacts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full agent result as JSON")
	return cmd
}

// loadContacts reads the contacts file first, then appends --contact values.
func loadContacts(path string, specs []string) ([]specialistx.Contact, error) {
	var contacts []specialistx.Contact
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read contacts: %w", err)
		}
		if err := yaml.Unmarshal(raw, &contacts); err != nil {
			return nil, fmt.Errorf("%w: decode contacts %s: %v", contractx.ErrInvalidRequest, path, err)
		}
	}

	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("%w: contact %q must be name:role[:preferred]", contractx.ErrInvalidRequest, spec)
		}
		c := specialistx.Contact{Name: strings.TrimSpace(parts[0]), Role: strings.TrimSpace(parts[1])}
		if len(parts) == 3 {
			c.PreferredContact = strings.TrimSpace(parts[2])
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}
