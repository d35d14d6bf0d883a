package main

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	crewx "github.com/tanpawarit/flight-delay-crew/agent/agents/crew"
	routerx "github.com/tanpawarit/flight-delay-crew/agent/agents/router"
	specialistx "github.com/tanpawarit/flight-delay-crew/agent/agents/specialist"
	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	llmx "github.com/tanpawarit/flight-delay-crew/agent/llm"
	memoryx "github.com/tanpawarit/flight-delay-crew/agent/memory"
	promptx "github.com/tanpawarit/flight-delay-crew/agent/prompt"
	runtimex "github.com/tanpawarit/flight-delay-crew/agent/runtime"
	tracingx "github.com/tanpawarit/flight-delay-crew/agent/tracing"
	configx "github.com/tanpawarit/flight-delay-crew/pkg/config"
	telemetryx "github.com/tanpawarit/flight-delay-crew/pkg/telemetry"
)

// app holds one process worth of wiring. The interaction store lives as
// long as the app does.
type app struct {
	registry contractx.Registry
	store    *memoryx.Store
	tracer   *tracingx.Tracer
	router   *routerx.Router
	crew     *crewx.Coordinator
	shutdown telemetryx.Shutdown
}

func newApp(ctx context.Context) (*app, error) {
	otelCfg, err := configx.New[telemetryx.Config]("OTEL")
	if err != nil {
		return nil, err
	}
	shutdown, err := telemetryx.Init(ctx, *otelCfg, version)
	if err != nil {
		return nil, err
	}

	memoryCfg, err := configx.New[memoryx.Config]("MEMORY")
	if err != nil {
		return nil, err
	}
	tracingCfg, err := configx.New[tracingx.Config]("TRACING")
	if err != nil {
		return nil, err
	}
	crewCfg, err := configx.New[crewx.Config]("CREW")
	if err != nil {
		return nil, err
	}
	runtimeCfg, err := configx.New[runtimex.Config]("RUNTIME")
	if err != nil {
		return nil, err
	}

	roster, err := promptx.LoadRoster()
	if err != nil {
		return nil, err
	}

	rt, err := runtimex.New(ctx, *runtimeCfg, roster, modelFactory())
	if err != nil {
		return nil, err
	}
	registry, err := specialistx.NewRegistry(roster, rt)
	if err != nil {
		return nil, err
	}

	store := memoryx.New(*memoryCfg)
	tracer := tracingx.New(*tracingCfg)

	router, err := routerx.New(registry, store, tracer)
	if err != nil {
		return nil, err
	}
	crew, err := crewx.New(registry.Agents(), store, tracer, *crewCfg)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("runtime", runtimeCfg.Provider).Int("agents", len(roster)).Msg("crew assembled")

	return &app{
		registry: registry,
		store:    store,
		tracer:   tracer,
		router:   router,
		crew:     crew,
		shutdown: shutdown,
	}, nil
}

// modelFactory defers loading LLM settings until the model runtime asks
// for a chat model.
func modelFactory() runtimex.ModelFactory {
	return func(ctx context.Context, kind contractx.AgentKind) (einomodel.BaseChatModel, error) {
		llmCfg, err := configx.New[llmx.Config]("LLM")
		if err != nil {
			return nil, err
		}
		if err := llmCfg.Validate(); err != nil {
			return nil, err
		}
		orCfg := llmCfg.OpenRouterFor(kind)
		return orCfg.New(ctx)
	}
}

// delayReason asks the delay analyzer why flight is late, for commands
// that were not given a reason.
func (a *app) delayReason(ctx context.Context, flight contractx.FlightInfo) (string, error) {
	out, err := a.registry.Delay().AnalyzeDelay(ctx, flight.FlightNumber, flight.Route(), flight.ScheduledDeparture)
	if err != nil {
		return "", err
	}
	reason, _ := out["delay_reason"].(string)
	return reason, nil
}

// recordDirect logs and stores a specialist call made outside the router
// and the crew. Store failures only warn.
func (a *app) recordDirect(ctx context.Context, agentName, task string, result contractx.Result, flight contractx.FlightInfo) {
	meta := map[string]string{"flight_number": flight.FlightNumber}
	a.tracer.LogAgentExecution(ctx, agentName, task, result, meta)
	if _, err := a.store.Store(agentName, task, result, meta); err != nil {
		log.Warn().Err(err).Str("agent", agentName).Msg("failed to record interaction")
	}
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("telemetry shutdown failed")
	}
}

// withApp builds the app for a single command run and tears it down after.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	defer a.close(context.WithoutCancel(ctx))
	return fn(ctx, a)
}
