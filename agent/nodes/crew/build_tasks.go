package crewnode

import (
	"fmt"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func BuildTasks(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	taskCtx := in.Flight.Context()
	taskCtx["trip_id"] = in.TripID
	in.TaskContext = taskCtx

	in.Tasks = make([]Task, 0, len(in.Agents))
	for _, agent := range in.Agents {
		d := agent.Descriptor()
		in.Tasks = append(in.Tasks, Task{
			Agent:       agent,
			Kind:        d.Kind,
			Description: fmt.Sprintf("Execute %s responsibilities for flight %s", d.Role, in.Flight.FlightNumber),
		})
	}
	return in, nil
}
