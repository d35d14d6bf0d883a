package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RUNTIME_PROVIDER", "echo")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReserveCommandPassesBooking(t *testing.T) {
	out, err := executeRoot(t, "reserve",
		"--flight", "aa123", "--origin", "JFK", "--destination", "LAX",
		"--hotel-check-in", "15:00", "--new-arrival", "18:30",
	)
	if err != nil {
		t.Fatalf("reserve error = %v", err)
	}
	for _, want := range []string{
		"- Hotel check-in: 15:00",
		"- Car rental pickup: Not booked",
		"- Flight: AA123",
		"- Expected new arrival: 18:30",
		"- Delay reason: Air traffic control restrictions",
		"with agent ReservationAdjuster",
		"Next: Notify hotel about late arrival",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReserveCommandKeepsExplicitReason(t *testing.T) {
	out, err := executeRoot(t, "reserve", "--flight", "AA123", "--destination", "LAX", "--reason", "Crew swap")
	if err != nil {
		t.Fatalf("reserve error = %v", err)
	}
	if !strings.Contains(out, "- Delay reason: Crew swap") {
		t.Fatalf("explicit reason not used:\n%s", out)
	}
}

func TestNotifyCommandReadsContacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	raw := "- name: Dana\n  role: host\n  preferred_contact: SMS\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write contacts: %v", err)
	}

	out, err := executeRoot(t, "notify",
		"--flight", "AA123", "--destination", "LAX",
		"--contacts", path, "--contact", "Lee:attendee", "--eta", "14:00",
	)
	if err != nil {
		t.Fatalf("notify error = %v", err)
	}
	for _, want := range []string{
		"- Event: Arrival of flight AA123",
		"- Location: LAX",
		"- Updated ETA: 14:00",
		"- Contact 1: Dana (host), Preferred contact: SMS",
		"- Contact 2: Lee (attendee), Preferred contact: Email",
		"with agent StakeholderNotifier",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadContactsRejectsMalformedFlag(t *testing.T) {
	_, err := loadContacts("", []string{"Lee"})
	if !errors.Is(err, contractx.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	got, err := loadContacts("", []string{" Kim : pilot : radio "})
	if err != nil {
		t.Fatalf("loadContacts() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Kim" || got[0].Role != "pilot" || got[0].PreferredContact != "radio" {
		t.Fatalf("unexpected contacts: %#v", got)
	}
}
