package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	promptx "github.com/tanpawarit/flight-delay-crew/agent/prompt"
)

// ModelFactory builds the chat model an agent kind runs on.
type ModelFactory func(ctx context.Context, kind contractx.AgentKind) (einomodel.BaseChatModel, error)

// Model submits tasks to a chat model, one compiled graph per agent.
type Model struct {
	runners map[string]compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.AgentRuntime = (*Model)(nil)

func NewModel(ctx context.Context, agents []contractx.AgentDescriptor, factory ModelFactory) (*Model, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: model factory is required", contractx.ErrValidation)
	}

	runners := make(map[string]compose.Runnable[map[string]any, *schema.Message], len(agents))
	for _, d := range agents {
		chatModel, err := factory(ctx, d.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: create model for agent=%s: %w", contractx.ErrModelInvoke, d.Name, err)
		}
		runner, err := compileAgentGraph(ctx, chatModel, promptx.SystemPrompt(d), d.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: compile graph for agent=%s: %w", contractx.ErrModelInvoke, d.Name, err)
		}
		runners[d.Name] = runner
	}
	return &Model{runners: runners}, nil
}

func (m *Model) Submit(ctx context.Context, agent contractx.AgentDescriptor, task string, taskCtx map[string]any) (contractx.Result, error) {
	runner, ok := m.runners[agent.Name]
	if !ok {
		return nil, fmt.Errorf("%w: no model graph for agent=%s", contractx.ErrAgentInvocation, agent.Name)
	}

	input, err := renderInput(task, taskCtx)
	if err != nil {
		return nil, err
	}

	msg, err := runner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("%w: agent=%s: %w", contractx.ErrModelInvoke, agent.Name, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, fmt.Errorf("%w: agent=%s returned an empty message", contractx.ErrModelInvoke, agent.Name)
	}

	return contractx.NewResult(agent.Name, task, taskCtx, strings.TrimSpace(msg.Content)), nil
}

func renderInput(task string, taskCtx map[string]any) (string, error) {
	if len(taskCtx) == 0 {
		return task, nil
	}
	raw, err := json.Marshal(taskCtx)
	if err != nil {
		return "", fmt.Errorf("%w: encode task context: %w", contractx.ErrSerialization, err)
	}
	return task + "\n\nContext:\n" + string(raw), nil
}
