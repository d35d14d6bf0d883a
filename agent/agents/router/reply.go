package router

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func reply(kind contractx.AgentKind, flight contractx.FlightInfo, raw map[string]any) string {
	switch kind {
	case contractx.AgentKindWeather:
		return fmt.Sprintf("Weather for %s: %s", str(raw, "airport", flight.Destination), str(raw, "summary", "Information not available"))
	case contractx.AgentKindDelay:
		return fmt.Sprintf("Flight %s status: %s. %s", flight.FlightNumber,
			str(raw, "delay_status", "unknown"), str(raw, "delay_reason", "No specific reason provided"))
	case contractx.AgentKindRoutes:
		return alternativesReply(raw)
	default:
		return str(raw, "advice", noAdviceReply)
	}
}

func alternativesReply(raw map[string]any) string {
	alts, _ := raw["alternatives"].([]map[string]any)
	if len(alts) == 0 {
		return noAlternativesReply
	}
	if len(alts) > 3 {
		alts = alts[:3]
	}

	var b strings.Builder
	b.WriteString("Here are some alternative routes:")
	for i, alt := range alts {
		fmt.Fprintf(&b, "\n%d. %s - %s", i+1, alternativeFlight(alt), alternativeDeparture(alt))
	}
	return b.String()
}

// Connections carry their flights per leg; the first leg stands in for the
// whole itinerary.
func alternativeFlight(alt map[string]any) string {
	if v := str(alt, "flight", ""); v != "" {
		return v
	}
	legs, _ := alt["flights"].([]map[string]any)
	if len(legs) == 0 {
		return "Flight"
	}
	names := make([]string, 0, len(legs))
	for _, leg := range legs {
		names = append(names, str(leg, "flight", "Flight"))
	}
	return strings.Join(names, " + ")
}

func alternativeDeparture(alt map[string]any) string {
	if v := str(alt, "departure_time", ""); v != "" {
		return v
	}
	legs, _ := alt["flights"].([]map[string]any)
	if len(legs) == 0 {
		return "N/A"
	}
	return str(legs[0], "departure_time", "N/A")
}

func str(m map[string]any, key string, fallback string) string {
	v, _ := m[key].(string)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
