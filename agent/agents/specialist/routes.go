package specialist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

var connectingCities = map[string]string{
	"JFK": "BOS",
	"LAX": "SFO",
	"ORD": "DTW",
	"DFW": "IAH",
	"ATL": "CLT",
}

var nearbyAirports = map[string]string{
	"JFK": "LGA",
	"LAX": "BUR",
	"ORD": "MDW",
	"DFW": "DAL",
	"ATL": "PDK",
}

const defaultConnection = "DCA"

type Routes struct {
	base
}

var _ contractx.RouteSuggester = (*Routes)(nil)

func NewRoutes(desc contractx.AgentDescriptor) *Routes {
	return &Routes{base: base{desc: desc}}
}

// SuggestAlternatives returns a direct flight, a connection and an
// alternative-airport option, in that order.
func (r *Routes) SuggestAlternatives(ctx context.Context, flight contractx.FlightInfo, destination string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := valueOr(flight.Origin, "Unknown")
	flightNum := valueOr(flight.FlightNumber, "Unknown")
	num, numbered := flightSerial(flightNum)

	pick := func(prefix string, offset int, fallback string) string {
		if !numbered {
			return fallback
		}
		return prefix + strconv.Itoa(num+offset)
	}

	connection, ok := connectingCities[origin]
	if !ok {
		connection = defaultConnection
	}
	altAirport, ok := nearbyAirports[destination]
	if !ok {
		altAirport = destination
	}

	alternatives := []map[string]any{
		{
			"type":             "direct_flight",
			"flight":           pick("DL", 100, "DL2532"),
			"airline":          "Delta Airlines",
			"departure_time":   "2 hours from now",
			"arrival_time":     "4 hours from now",
			"price_difference": "+$150",
			"availability":     "6 seats left",
		},
		{
			"type": "connection",
			"flights": []map[string]any{
				{
					"flight":         pick("UA", -50, "UA1422"),
					"from":           origin,
					"to":             connection,
					"departure_time": "1.5 hours from now",
				},
				{
					"flight":         pick("UA", 75, "UA1575"),
					"from":           connection,
					"to":             destination,
					"departure_time": "4 hours from now",
				},
			},
			"airline":           "United Airlines",
			"total_travel_time": "6.5 hours",
			"price_difference":  "+$50",
			"availability":      "12 seats left",
		},
		{
			"type":                 "alternative_airport",
			"flight":               pick("AA", 200, "AA3689"),
			"airline":              "American Airlines",
			"departure_time":       "3 hours from now",
			"arrival_airport":      altAirport,
			"distance_to_original": "25 miles",
			"ground_transport":     "Taxi, Shuttle, Rideshare available",
			"price_difference":     "-$75",
			"availability":         "2 seats left",
		},
	}

	return map[string]any{
		"original_flight": flightNum,
		"origin":          origin,
		"destination":     destination,
		"alternatives":    alternatives,
		"recommendation":  "We recommend the direct Delta flight as the fastest option to your destination.",
	}, nil
}

func (r *Routes) Invoke(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	flight := contractx.FlightFromContext(taskCtx)
	if flight.Destination == "" {
		return nil, fmt.Errorf("%w: destination is required", contractx.ErrInvalidRequest)
	}

	out, err := r.SuggestAlternatives(ctx, flight, flight.Destination)
	if err != nil {
		return nil, err
	}
	return contractx.NewResult(r.desc.Name, task, taskCtx, out).
		WithRecommendation("Check alternative routes if critical"), nil
}

// flightSerial splits "AA123" into 123. It reports false unless the number
// starts with a two-letter carrier code followed by digits.
func flightSerial(flightNum string) (int, bool) {
	runes := []rune(flightNum)
	if len(runes) < 3 || !unicode.IsLetter(runes[0]) || !unicode.IsLetter(runes[1]) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(runes[2:])))
	if err != nil {
		return 0, false
	}
	return n, true
}
