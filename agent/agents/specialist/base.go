package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

// base carries the descriptor every specialist is configured with. Agents
// that delegate free-form work hand it to the runtime.
type base struct {
	desc    contractx.AgentDescriptor
	runtime contractx.AgentRuntime
}

func (b base) Descriptor() contractx.AgentDescriptor {
	return b.desc
}

func (b base) submit(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	if b.runtime == nil {
		return nil, fmt.Errorf("%w: agent=%s has no runtime", contractx.ErrAgentInvocation, b.desc.Name)
	}
	out, err := b.runtime.Submit(ctx, b.desc, task, taskCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: agent=%s: %w", contractx.ErrAgentInvocation, b.desc.Name, err)
	}
	return out, nil
}

func valueOr(v string, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func stringFrom(taskCtx map[string]any, key string) string {
	v, _ := taskCtx[key].(string)
	return strings.TrimSpace(v)
}
