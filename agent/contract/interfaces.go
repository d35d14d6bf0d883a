package contract

import (
	"context"
	"time"
)

// Agent is the uniform seam every specialist implements. The crew only ever
// talks to agents through it.
type Agent interface {
	Descriptor() AgentDescriptor
	Invoke(ctx context.Context, task string, taskCtx map[string]any) (Result, error)
}

type WeatherChecker interface {
	Agent
	CheckWeather(ctx context.Context, airport string, dateTime string) (map[string]any, error)
}

type DelayAnalyzer interface {
	Agent
	AnalyzeDelay(ctx context.Context, flightNumber string, route string, date string) (map[string]any, error)
}

type RouteSuggester interface {
	Agent
	SuggestAlternatives(ctx context.Context, flight FlightInfo, destination string) (map[string]any, error)
}

type TravelAdvisor interface {
	Agent
	AdviseTravel(ctx context.Context, flight FlightInfo, request string) (map[string]any, error)
}

// Registry exposes the registered crew in registration order plus the
// handlers the router addresses directly.
type Registry interface {
	Agents() []Agent
	Weather() WeatherChecker
	Delay() DelayAnalyzer
	Routes() RouteSuggester
	Organizer() TravelAdvisor
}

// AgentRuntime executes a free-form task on behalf of an agent.
type AgentRuntime interface {
	Submit(ctx context.Context, agent AgentDescriptor, task string, taskCtx map[string]any) (Result, error)
}

// InteractionIndex records agent interactions and serves keyword and
// recency based lookups over them.
type InteractionIndex interface {
	Store(agentName string, task string, result any, metadata map[string]string) (string, error)
	Retrieve(query string, limit int) []Interaction
	RetrieveByAgent(agentName string, limit int) []Interaction
	RetrieveByMetadata(filter map[string]string, limit int) []Interaction
}

// Tracer never reports failures back to the caller.
type Tracer interface {
	StartTrace(ctx context.Context, traceID string, name string)
	EndTrace(ctx context.Context, traceID string)
	LogAgentExecution(ctx context.Context, agentName string, task string, result any, metadata map[string]string)
	LogError(ctx context.Context, agentName string, task string, err error, metadata map[string]string)
}

// SpanScoper is implemented by tracers that can hand out a context carrying
// an open trace, so work done under it is attributed to that trace.
type SpanScoper interface {
	SpanContext(ctx context.Context, traceID string) context.Context
}

// TraceContext scopes ctx to traceID when tracer supports it and returns
// ctx unchanged otherwise.
func TraceContext(ctx context.Context, tracer Tracer, traceID string) context.Context {
	if s, ok := tracer.(SpanScoper); ok {
		return s.SpanContext(ctx, traceID)
	}
	return ctx
}

// Interaction is one persisted record of an agent execution.
type Interaction struct {
	ID        string            `json:"id"`
	AgentName string            `json:"agent_name"`
	Task      string            `json:"task"`
	Result    any               `json:"result"`
	Metadata  map[string]string `json:"metadata"`
	Score     float64           `json:"score,omitempty"`
	StoredAt  time.Time         `json:"stored_at"`
}
