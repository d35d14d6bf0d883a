package crewnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func StartTrace(ctx context.Context, in *GraphState, tracer contractx.Tracer) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	tracer.StartTrace(ctx, in.TraceID, fmt.Sprintf("flight_delay_%s", in.Flight.FlightNumber))
	return in, nil
}
