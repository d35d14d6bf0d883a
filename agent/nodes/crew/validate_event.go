package crewnode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func ValidateEvent(
	in GraphInput,
	agents []contractx.Agent,
	nowFn func() time.Time,
	newTraceID func() string,
) (*GraphState, error) {
	if len(agents) == 0 {
		return nil, contractx.ErrNoAgentsConfigured
	}

	flight := in.Flight
	flight.FlightNumber = strings.TrimSpace(flight.FlightNumber)
	if flight.FlightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", contractx.ErrInvalidRequest)
	}
	flight.Origin = strings.TrimSpace(flight.Origin)
	flight.Destination = strings.TrimSpace(flight.Destination)

	now := nowFn()
	return &GraphState{
		Flight:  flight,
		Now:     now.UTC(),
		TraceID: newTraceID(),
		TripID:  fmt.Sprintf("%s_%s", flight.FlightNumber, now.Format("20060102_150405")),
		Agents:  agents,
	}, nil
}
