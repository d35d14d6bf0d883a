package crewnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

// Record logs and stores every successful contribution plus the aggregate,
// then closes the trace. Store failures are logged and never fail the event.
func Record(
	ctx context.Context,
	in *GraphState,
	store contractx.InteractionIndex,
	tracer contractx.Tracer,
	logger zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	defer tracer.EndTrace(ctx, in.TraceID)
	ctx = contractx.TraceContext(ctx, tracer, in.TraceID)

	meta := in.metadata()
	for _, c := range in.Contributions {
		if c.Failed {
			continue
		}
		tracer.LogAgentExecution(ctx, c.Agent, c.Task, c.Result, meta)
		if _, err := store.Store(c.Agent, c.Task, c.Result, meta); err != nil {
			logger.Warn().Err(err).Str("agent", c.Agent).Str("trace_id", in.TraceID).Msg("failed to record contribution")
		}
	}

	tracer.LogAgentExecution(ctx, CrewAgent, CrewTask, in.Result, meta)
	if _, err := store.Store(CrewAgent, CrewTask, in.Result, meta); err != nil {
		logger.Warn().Err(err).Str("trace_id", in.TraceID).Msg("failed to record crew result")
	}
	return in, nil
}
