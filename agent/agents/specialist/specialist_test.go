package specialist

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	promptx "github.com/tanpawarit/flight-delay-crew/agent/prompt"
	runtimex "github.com/tanpawarit/flight-delay-crew/agent/runtime"
)

type fakeRuntime struct {
	reply string
	err   error
	tasks []string
}

func (f *fakeRuntime) Submit(ctx context.Context, agent contractx.AgentDescriptor, task string, taskCtx map[string]any) (contractx.Result, error) {
	f.tasks = append(f.tasks, task)
	if f.err != nil {
		return nil, f.err
	}
	return contractx.NewResult(agent.Name, task, taskCtx, f.reply), nil
}

func desc(name string, kind contractx.AgentKind) contractx.AgentDescriptor {
	return contractx.AgentDescriptor{Name: name, Kind: kind, Role: name + " role"}
}

var aa123 = contractx.FlightInfo{
	FlightNumber:       "AA123",
	Origin:             "JFK",
	Destination:        "LAX",
	ScheduledDeparture: "2024-03-24T10:00:00Z",
}

func TestCheckWeatherKnownAirport(t *testing.T) {
	t.Parallel()

	w := NewWeather(desc("WeatherChecker", contractx.AgentKindWeather))
	out, err := w.CheckWeather(context.Background(), "jfk", "2024-03-24T10:00:00Z")
	if err != nil {
		t.Fatalf("CheckWeather() error = %v", err)
	}
	if out["delay_risk"] != "Low" || out["condition"] != "Clear" {
		t.Fatalf("unexpected weather: %#v", out)
	}
	want := "Weather at jfk is Clear with 72°F. Wind: 5mph NE. Delay risk: Low."
	if out["summary"] != want {
		t.Fatalf("summary = %q, want %q", out["summary"], want)
	}
}

func TestCheckWeatherUnknownAirport(t *testing.T) {
	t.Parallel()

	w := NewWeather(desc("WeatherChecker", contractx.AgentKindWeather))
	out, err := w.CheckWeather(context.Background(), "SEA", "")
	if err != nil {
		t.Fatalf("CheckWeather() error = %v", err)
	}
	if out["condition"] != "Unknown" || out["delay_risk"] != "Unknown" || out["wind"] != "10mph" {
		t.Fatalf("unexpected fallback weather: %#v", out)
	}
}

func TestWeatherInvokeUsesDestination(t *testing.T) {
	t.Parallel()

	w := NewWeather(desc("WeatherChecker", contractx.AgentKindWeather))
	out, err := w.Invoke(context.Background(), "task", contractx.FlightInfo{FlightNumber: "UA9", Origin: "JFK", Destination: "DFW"}.Context())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out.Payload()["airport"] != "DFW" {
		t.Fatalf("expected destination airport, got %#v", out.Payload())
	}
	if out.Recommendation() != "Expect weather disruption at DFW" {
		t.Fatalf("unexpected recommendation: %q", out.Recommendation())
	}
}

func TestAnalyzeDelayTable(t *testing.T) {
	t.Parallel()

	d := NewDelay(desc("FlightDelayScanner", contractx.AgentKindDelay))
	cases := []struct {
		flight  string
		status  string
		reason  string
		minutes int
		rec     string
	}{
		{"AA123", "SIGNIFICANTLY DELAYED", "Air traffic control restrictions", 45, "Consider alternative arrangements"},
		{"AA120", "ON TIME", "No delays expected", 0, "Monitor flight status"},
		{"AA121", "SLIGHT DELAY", "Weather conditions at destination", 15, "Monitor flight status"},
		{"AA125", "ON TIME", "No delays expected", 0, "Monitor flight status"},
		{"AA124", "CANCELLED", "Incoming aircraft delayed", 60, "Consider alternative arrangements"},
		{"AAXYZ", "ON TIME", "No delays expected", 0, "Monitor flight status"},
	}
	for _, tc := range cases {
		out, err := d.AnalyzeDelay(context.Background(), tc.flight, "JFK to LAX", "2024-03-24")
		if err != nil {
			t.Fatalf("AnalyzeDelay(%s) error = %v", tc.flight, err)
		}
		if out["delay_status"] != tc.status || out["delay_reason"] != tc.reason {
			t.Fatalf("%s: got status=%v reason=%v", tc.flight, out["delay_status"], out["delay_reason"])
		}
		if out["predicted_delay_minutes"] != tc.minutes || out["recommendation"] != tc.rec {
			t.Fatalf("%s: got minutes=%v rec=%v", tc.flight, out["predicted_delay_minutes"], out["recommendation"])
		}
	}
}

func TestAnalyzeDelayRequiresFlightNumber(t *testing.T) {
	t.Parallel()

	d := NewDelay(desc("FlightDelayScanner", contractx.AgentKindDelay))
	if _, err := d.AnalyzeDelay(context.Background(), "  ", "", ""); !errors.Is(err, contractx.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSuggestAlternatives(t *testing.T) {
	t.Parallel()

	r := NewRoutes(desc("AlternativeRouteSuggester", contractx.AgentKindRoutes))
	out, err := r.SuggestAlternatives(context.Background(), aa123, "LAX")
	if err != nil {
		t.Fatalf("SuggestAlternatives() error = %v", err)
	}

	alts, ok := out["alternatives"].([]map[string]any)
	if !ok || len(alts) != 3 {
		t.Fatalf("unexpected alternatives: %#v", out["alternatives"])
	}
	if alts[0]["flight"] != "DL223" {
		t.Fatalf("direct flight = %v", alts[0]["flight"])
	}
	legs := alts[1]["flights"].([]map[string]any)
	if legs[0]["flight"] != "UA73" || legs[0]["to"] != "BOS" || legs[1]["flight"] != "UA198" {
		t.Fatalf("unexpected connection: %#v", legs)
	}
	if alts[2]["flight"] != "AA323" || alts[2]["arrival_airport"] != "BUR" {
		t.Fatalf("unexpected alternative airport: %#v", alts[2])
	}
}

func TestSuggestAlternativesFallbackNumbers(t *testing.T) {
	t.Parallel()

	r := NewRoutes(desc("AlternativeRouteSuggester", contractx.AgentKindRoutes))
	out, err := r.SuggestAlternatives(context.Background(), contractx.FlightInfo{FlightNumber: "123", Origin: "SEA"}, "BOS")
	if err != nil {
		t.Fatalf("SuggestAlternatives() error = %v", err)
	}
	alts := out["alternatives"].([]map[string]any)
	legs := alts[1]["flights"].([]map[string]any)
	if alts[0]["flight"] != "DL2532" || legs[0]["flight"] != "UA1422" || legs[1]["flight"] != "UA1575" || alts[2]["flight"] != "AA3689" {
		t.Fatalf("unexpected fallback flights: %#v", alts)
	}
	if legs[0]["to"] != "DCA" || alts[2]["arrival_airport"] != "BOS" {
		t.Fatalf("unexpected fallback airports: %#v", alts)
	}
}

func TestReservationInvokeRunsThroughRuntime(t *testing.T) {
	t.Parallel()

	r := NewReservation(desc("ReservationAdjuster", contractx.AgentKindReservation), runtimex.Echo{})
	out, err := r.Invoke(context.Background(), "Execute role responsibilities for flight AA123", aa123.Context())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	got, _ := out[contractx.ResultKeyResult].(string)
	if !strings.HasPrefix(got, "Executed 'Adjust travel reservations") || !strings.HasSuffix(got, "with agent ReservationAdjuster") {
		t.Fatalf("unexpected result: %q", got)
	}
	if out.Recommendation() != "Notify hotel about late arrival" {
		t.Fatalf("unexpected recommendation: %q", out.Recommendation())
	}
}

func TestReservationWrapsRuntimeFailure(t *testing.T) {
	t.Parallel()

	r := NewReservation(desc("ReservationAdjuster", contractx.AgentKindReservation), &fakeRuntime{err: errors.New("offline")})
	_, err := r.AdjustReservations(context.Background(), Booking{TripID: "t1"}, DelayInfo{FlightNumber: "AA123"}, "")
	if !errors.Is(err, contractx.ErrAgentInvocation) {
		t.Fatalf("expected ErrAgentInvocation, got %v", err)
	}
}

func TestNotifyStakeholdersFormatsContacts(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{reply: "sent"}
	n := NewNotifier(desc("StakeholderNotifier", contractx.AgentKindNotifier), rt)
	_, err := n.NotifyStakeholders(context.Background(), Notice{
		TripID:     "AA123_20240324_100000",
		Contacts:   []Contact{{Name: "Dana", Role: "host", PreferredContact: "SMS"}, {Name: "Lee", Role: "attendee"}},
		UpdatedETA: "14:00",
	})
	if err != nil {
		t.Fatalf("NotifyStakeholders() error = %v", err)
	}

	if len(rt.tasks) != 1 {
		t.Fatalf("expected one submitted task, got %d", len(rt.tasks))
	}
	for _, part := range []string{
		"- Contact 1: Dana (host), Preferred contact: SMS",
		"- Contact 2: Lee (attendee), Preferred contact: Email",
		"- Updated ETA: 14:00",
		"- Reason for delay: Unknown",
	} {
		if !strings.Contains(rt.tasks[0], part) {
			t.Fatalf("task missing %q:\n%s", part, rt.tasks[0])
		}
	}
}

func TestOrganizeDocumentsListsDocumentsAndUpdates(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{reply: "ok"}
	o := NewOrganizer(desc("TravelOrganizer", contractx.AgentKindOrganizer), rt)
	_, err := o.OrganizeDocuments(context.Background(),
		TripDetails{TravelerName: "Sam", TripID: "t1", Destination: "LAX"},
		[]Document{{Name: "Boarding pass", Type: "pdf"}},
		[]StatusUpdate{{Timestamp: "10:00", Status: "DELAYED"}},
	)
	if err != nil {
		t.Fatalf("OrganizeDocuments() error = %v", err)
	}
	for _, part := range []string{"- Traveler: Sam", "- Document 1: Boarding pass (pdf)", "- Update 1: 10:00 - DELAYED"} {
		if !strings.Contains(rt.tasks[0], part) {
			t.Fatalf("task missing %q:\n%s", part, rt.tasks[0])
		}
	}
}

func TestAdviseTravelReturnsRuntimeText(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{reply: " Arrive two hours early. "}
	o := NewOrganizer(desc("TravelOrganizer", contractx.AgentKindOrganizer), rt)
	out, err := o.AdviseTravel(context.Background(), aa123, "should i pack an umbrella")
	if err != nil {
		t.Fatalf("AdviseTravel() error = %v", err)
	}
	if out["advice"] != "Arrive two hours early." {
		t.Fatalf("unexpected advice: %#v", out)
	}
	if !strings.Contains(rt.tasks[0], "Traveler request: should i pack an umbrella") {
		t.Fatalf("request not forwarded: %s", rt.tasks[0])
	}
}

func TestNewRegistryFromRoster(t *testing.T) {
	t.Parallel()

	roster, err := promptx.LoadRoster()
	if err != nil {
		t.Fatalf("LoadRoster() error = %v", err)
	}
	reg, err := NewRegistry(roster, runtimex.Echo{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	agents := reg.Agents()
	if len(agents) != len(roster) {
		t.Fatalf("expected %d agents, got %d", len(roster), len(agents))
	}
	for i, a := range agents {
		if a.Descriptor().Name != roster[i].Name {
			t.Fatalf("agent[%d] = %s, want %s", i, a.Descriptor().Name, roster[i].Name)
		}
	}
	if reg.Weather() == nil || reg.Delay() == nil || reg.Routes() == nil || reg.Organizer() == nil {
		t.Fatal("router handlers should be wired")
	}
}

func TestNewRegistryRejectsIncompleteRoster(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]contractx.AgentDescriptor{desc("WeatherChecker", contractx.AgentKindWeather)}, runtimex.Echo{})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = NewRegistry([]contractx.AgentDescriptor{desc("X", "teleporter")}, runtimex.Echo{})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown kind, got %v", err)
	}
}

func TestRegistryLookupsFindOptionalSpecialists(t *testing.T) {
	t.Parallel()

	full := []contractx.AgentDescriptor{
		desc("WeatherChecker", contractx.AgentKindWeather),
		desc("FlightDelayScanner", contractx.AgentKindDelay),
		desc("ReservationAdjuster", contractx.AgentKindReservation),
		desc("StakeholderNotifier", contractx.AgentKindNotifier),
		desc("AlternativeRouteSuggester", contractx.AgentKindRoutes),
		desc("TravelOrganizer", contractx.AgentKindOrganizer),
	}
	reg, err := NewRegistry(full, runtimex.Echo{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if r, ok := ReservationFrom(reg); !ok || r.Descriptor().Name != "ReservationAdjuster" {
		t.Fatalf("ReservationFrom() = %v, %v", r, ok)
	}
	if n, ok := NotifierFrom(reg); !ok || n.Descriptor().Name != "StakeholderNotifier" {
		t.Fatalf("NotifierFrom() = %v, %v", n, ok)
	}

	minimal := []contractx.AgentDescriptor{full[0], full[1], full[4], full[5]}
	reg, err = NewRegistry(minimal, runtimex.Echo{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if _, ok := ReservationFrom(reg); ok {
		t.Fatal("expected no reservation adjuster in a minimal roster")
	}
	if _, ok := NotifierFrom(nil); ok {
		t.Fatal("expected no notifier from a nil registry")
	}
}

func TestNotifierInvokeBriefsWithoutContacts(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{reply: "drafted"}
	n := NewNotifier(desc("StakeholderNotifier", contractx.AgentKindNotifier), rt)
	out, err := n.Invoke(context.Background(), "Execute role responsibilities for flight AA123", aa123.Context())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	for _, part := range []string{"- Event: Arrival of flight AA123", "- Location: LAX", "- No contacts on file"} {
		if !strings.Contains(rt.tasks[0], part) {
			t.Fatalf("task missing %q:\n%s", part, rt.tasks[0])
		}
	}
	if out.Recommendation() != "Update calendar events" {
		t.Fatalf("unexpected recommendation: %q", out.Recommendation())
	}
}

func TestSubmitKeepsRuntimeErrorChain(t *testing.T) {
	t.Parallel()

	r := NewReservation(desc("ReservationAdjuster", contractx.AgentKindReservation), &fakeRuntime{err: context.DeadlineExceeded})
	_, err := r.AdjustReservations(context.Background(), Booking{TripID: "t1"}, DelayInfo{FlightNumber: "AA123"}, "")
	if !errors.Is(err, contractx.ErrAgentInvocation) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected invocation error wrapping the deadline, got %v", err)
	}
}
