package crewnode

import (
	"time"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

const (
	CrewAgent = "FlightDelayCrew"
	CrewTask  = "handle_flight_delay"
)

type GraphInput struct {
	Flight contractx.FlightInfo
}

type GraphOutput struct {
	Result contractx.CrewResult
}

// Task is one agent's share of an event.
type Task struct {
	Agent       contractx.Agent
	Kind        contractx.AgentKind
	Description string
}

type GraphState struct {
	Flight  contractx.FlightInfo
	Now     time.Time
	TraceID string
	TripID  string

	Agents        []contractx.Agent
	TaskContext   map[string]any
	Tasks         []Task
	Contributions []contractx.Contribution

	Result contractx.CrewResult
}

func (s *GraphState) metadata() map[string]string {
	return map[string]string{
		"trace_id":      s.TraceID,
		"trip_id":       s.TripID,
		"flight_number": s.Flight.FlightNumber,
	}
}
