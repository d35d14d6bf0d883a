package crew

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/flight-delay-crew/agent/nodes/crew"
)

func (c *Coordinator) compileHandleEventGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_event",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateEvent(in, c.agents, c.now, c.newTraceID)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_event: %w", err)
	}

	if err := graph.AddLambdaNode("start_trace",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.StartTrace(ctx, in, c.tracer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node start_trace: %w", err)
	}

	if err := graph.AddLambdaNode("build_tasks",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.BuildTasks(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_tasks: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_agents",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InvokeAgents(ctx, in, c.tracer, c.policy)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_agents: %w", err)
	}

	if err := graph.AddLambdaNode("aggregate",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Aggregate(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node aggregate: %w", err)
	}

	if err := graph.AddLambdaNode("record",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Record(ctx, in, c.store, c.tracer, c.logger)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_event"},
		{"validate_event", "start_trace"},
		{"start_trace", "build_tasks"},
		{"build_tasks", "invoke_agents"},
		{"invoke_agents", "aggregate"},
		{"aggregate", "record"},
		{"record", "finalize"},
		{"finalize", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("crew.handle_event"))
	if err != nil {
		return nil, fmt.Errorf("compile crew graph: %w", err)
	}
	return runner, nil
}
