package crewnode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type InvokePolicy struct {
	MaxConcurrency int
	AgentTimeout   time.Duration
}

// InvokeAgents runs every task concurrently and waits for all of them.
// Failures never abort the event; they become failed contributions in the
// task's slot so the order stays the registration order.
func InvokeAgents(
	ctx context.Context,
	in *GraphState,
	tracer contractx.Tracer,
	policy InvokePolicy,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	ctx = contractx.TraceContext(ctx, tracer, in.TraceID)

	contributions := make([]contractx.Contribution, len(in.Tasks))
	errs := make([]error, len(in.Tasks))

	var g errgroup.Group
	if policy.MaxConcurrency > 0 {
		g.SetLimit(policy.MaxConcurrency)
	}
	for i, task := range in.Tasks {
		g.Go(func() error {
			contributions[i], errs[i] = invokeOne(ctx, task, cloneContext(in.TaskContext), policy.AgentTimeout)
			return nil
		})
	}
	_ = g.Wait()

	meta := in.metadata()
	for i, err := range errs {
		if err != nil {
			tracer.LogError(ctx, contributions[i].Agent, contributions[i].Task, err, meta)
		}
	}

	in.Contributions = contributions
	return in, nil
}

func invokeOne(ctx context.Context, task Task, taskCtx map[string]any, timeout time.Duration) (contractx.Contribution, error) {
	name := task.Agent.Descriptor().Name
	out := contractx.Contribution{Agent: name, Task: task.Description}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	type outcome struct {
		result contractx.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: agent=%s panicked: %v", contractx.ErrAgentInvocation, name, r)}
			}
		}()
		res, err := task.Agent.Invoke(callCtx, task.Description, taskCtx)
		done <- outcome{result: res, err: err}
	}()

	var err error
	select {
	case o := <-done:
		out.Result, err = o.result, o.err
	case <-callCtx.Done():
		err = callCtx.Err()
	}

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w: agent=%s exceeded %s", contractx.ErrAgentInvocation, contractx.ErrAgentTimeout, name, timeout)
	case !errors.Is(err, contractx.ErrAgentInvocation):
		err = fmt.Errorf("%w: agent=%s: %w", contractx.ErrAgentInvocation, name, err)
	}

	out.Result = nil
	out.Failed = true
	out.Error = err.Error()
	return out, err
}

func cloneContext(taskCtx map[string]any) map[string]any {
	out := make(map[string]any, len(taskCtx))
	for k, v := range taskCtx {
		out[k] = v
	}
	return out
}
