package runtime

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

const (
	ProviderEcho  = "echo"
	ProviderModel = "model"
)

type Config struct {
	Provider string `envconfig:"PROVIDER" default:"echo"`
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case ProviderEcho, ProviderModel:
		return nil
	default:
		return fmt.Errorf("%w: unknown runtime provider=%q", contractx.ErrValidation, c.Provider)
	}
}

// New picks the runtime named by cfg.Provider. The factory is only consulted
// for the model provider.
func New(ctx context.Context, cfg Config, agents []contractx.AgentDescriptor, factory ModelFactory) (contractx.AgentRuntime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), ProviderModel) {
		return NewModel(ctx, agents, factory)
	}
	return Echo{}, nil
}

// Echo acknowledges every task without doing any work. It keeps the crew
// deterministic when no model is configured.
type Echo struct{}

var _ contractx.AgentRuntime = Echo{}

func (Echo) Submit(ctx context.Context, agent contractx.AgentDescriptor, task string, taskCtx map[string]any) (contractx.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return contractx.NewResult(agent.Name, task, taskCtx, fmt.Sprintf("Executed '%s' with agent %s", task, agent.Name)), nil
}
