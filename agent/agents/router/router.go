package router

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	logx "github.com/tanpawarit/flight-delay-crew/pkg/logger"
)

const (
	chatAgent = "ChatSystem"
	chatTask  = "process_query"

	noAlternativesReply = "I couldn't find any alternative routes at this time."
	noAdviceReply       = "I'm not sure how to help with that specific query."
)

type rule struct {
	kind   contractx.AgentKind
	tokens []string
}

// rules are tried in order; the first rule with a matching token wins.
var rules = []rule{
	{kind: contractx.AgentKindWeather, tokens: []string{"weather"}},
	{kind: contractx.AgentKindDelay, tokens: []string{"delay", "status"}},
	{kind: contractx.AgentKindRoutes, tokens: []string{"alternative", "other flight"}},
}

type Router struct {
	registry contractx.Registry
	store    contractx.InteractionIndex
	tracer   contractx.Tracer
	now      func() time.Time
	logger   zerolog.Logger
}

func New(registry contractx.Registry, store contractx.InteractionIndex, tracer contractx.Tracer) (*Router, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: registry is required", contractx.ErrValidation)
	}
	return &Router{
		registry: registry,
		store:    store,
		tracer:   tracer,
		now:      time.Now,
		logger:   logx.Component("router"),
	}, nil
}

// Route answers the latest user message in history with a single handler.
func (r *Router) Route(ctx context.Context, history []contractx.ChatMessage, flight contractx.FlightInfo) (contractx.RouteResult, error) {
	msg, ok := contractx.LatestUserMessage(history)
	if !ok {
		return contractx.RouteResult{}, fmt.Errorf("%w: conversation has no user message", contractx.ErrInvalidRequest)
	}
	query := strings.ToLower(strings.TrimSpace(msg.Content))

	memoryKey := fmt.Sprintf("%s_%s", flight.FlightNumber, r.now().Format("20060102"))
	r.record(chatAgent, chatTask, map[string]any{
		"query":   query,
		"context": flight.Context(),
	}, map[string]string{"memory_key": memoryKey})

	traceID := uuid.NewString()
	r.startTrace(ctx, traceID)
	defer r.endTrace(ctx, traceID)
	ctx = contractx.TraceContext(ctx, r.tracer, traceID)

	kind := classify(query)
	agentName, task, raw, err := r.dispatch(ctx, kind, query, flight)
	meta := map[string]string{
		"trace_id":      traceID,
		"memory_key":    memoryKey,
		"flight_number": flight.FlightNumber,
	}
	if err != nil {
		if r.tracer != nil {
			r.tracer.LogError(ctx, agentName, task, err, meta)
		}
		return contractx.RouteResult{}, fmt.Errorf("%w: agent=%s task=%s: %w", contractx.ErrAgentInvocation, agentName, task, err)
	}

	if r.tracer != nil {
		r.tracer.LogAgentExecution(ctx, agentName, task, raw, meta)
	}
	r.record(agentName, task, raw, meta)

	return contractx.RouteResult{
		Reply: reply(kind, flight, raw),
		Agent: agentName,
		Kind:  kind,
		Raw:   raw,
	}, nil
}

func (r *Router) dispatch(ctx context.Context, kind contractx.AgentKind, query string, flight contractx.FlightInfo) (string, string, map[string]any, error) {
	switch kind {
	case contractx.AgentKindWeather:
		h := r.registry.Weather()
		out, err := h.CheckWeather(ctx, weatherAirport(query, flight), flight.ScheduledDeparture)
		return h.Descriptor().Name, "check_weather", out, err
	case contractx.AgentKindDelay:
		h := r.registry.Delay()
		out, err := h.AnalyzeDelay(ctx, flight.FlightNumber, flight.Route(), flight.ScheduledDeparture)
		return h.Descriptor().Name, "analyze_delay", out, err
	case contractx.AgentKindRoutes:
		h := r.registry.Routes()
		current := flight
		current.CurrentStatus = "DELAYED"
		out, err := h.SuggestAlternatives(ctx, current, flight.Destination)
		return h.Descriptor().Name, "suggest_alternatives", out, err
	default:
		h := r.registry.Organizer()
		out, err := h.AdviseTravel(ctx, flight, query)
		return h.Descriptor().Name, "advise_travel", out, err
	}
}

func (r *Router) record(agentName string, task string, result any, metadata map[string]string) {
	if r.store == nil {
		return
	}
	if _, err := r.store.Store(agentName, task, result, metadata); err != nil {
		r.logger.Warn().Err(err).Str("agent", agentName).Str("task", task).Msg("failed to record interaction")
	}
}

func (r *Router) startTrace(ctx context.Context, traceID string) {
	if r.tracer != nil {
		r.tracer.StartTrace(ctx, traceID, "route_query")
	}
}

func (r *Router) endTrace(ctx context.Context, traceID string) {
	if r.tracer != nil {
		r.tracer.EndTrace(ctx, traceID)
	}
}

func classify(query string) contractx.AgentKind {
	for _, rl := range rules {
		for _, token := range rl.tokens {
			if strings.Contains(query, token) {
				return rl.kind
			}
		}
	}
	return contractx.AgentKindOrganizer
}

// weatherAirport prefers an airport code named in the query, then the
// origin when the query asks about departure, then the destination.
func weatherAirport(query string, flight contractx.FlightInfo) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	mentioned := make(map[string]struct{}, len(words))
	for _, w := range words {
		mentioned[w] = struct{}{}
	}
	for _, code := range []string{flight.Origin, flight.Destination} {
		if code == "" {
			continue
		}
		if _, ok := mentioned[strings.ToLower(code)]; ok {
			return code
		}
	}

	if strings.Contains(query, "origin") || strings.Contains(query, "departure") {
		return flight.Origin
	}
	return flight.Destination
}
