package contract

import (
	"fmt"
	"strings"
)

type AgentKind string

const (
	AgentKindWeather     AgentKind = "weather"
	AgentKindDelay       AgentKind = "delay"
	AgentKindReservation AgentKind = "reservation"
	AgentKindNotifier    AgentKind = "notifier"
	AgentKindRoutes      AgentKind = "routes"
	AgentKindOrganizer   AgentKind = "organizer"
)

// AgentDescriptor is the static identity of an agent. It is config data,
// loaded once from the roster.
type AgentDescriptor struct {
	Name         string    `json:"name" yaml:"name"`
	Kind         AgentKind `json:"kind" yaml:"kind"`
	Role         string    `json:"role" yaml:"role"`
	Goal         string    `json:"goal" yaml:"goal"`
	Backstory    string    `json:"backstory,omitempty" yaml:"backstory"`
	Capabilities []string  `json:"capabilities,omitempty" yaml:"capabilities"`
}

func (d AgentDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: agent name is empty", ErrValidation)
	}
	if strings.TrimSpace(string(d.Kind)) == "" {
		return fmt.Errorf("%w: agent kind is empty for agent=%s", ErrValidation, d.Name)
	}
	if strings.TrimSpace(d.Role) == "" {
		return fmt.Errorf("%w: agent role is empty for agent=%s", ErrValidation, d.Name)
	}
	return nil
}

func (d AgentDescriptor) Can(capability string) bool {
	for _, c := range d.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Result is the payload an agent returns from Invoke. It always carries the
// result, agent, task and context keys.
type Result map[string]any

const (
	ResultKeyResult         = "result"
	ResultKeyAgent          = "agent"
	ResultKeyTask           = "task"
	ResultKeyContext        = "context"
	ResultKeyRecommendation = "recommendation"
)

func NewResult(agentName string, task string, taskCtx map[string]any, payload any) Result {
	if taskCtx == nil {
		taskCtx = map[string]any{}
	}
	return Result{
		ResultKeyResult:  payload,
		ResultKeyAgent:   agentName,
		ResultKeyTask:    task,
		ResultKeyContext: taskCtx,
	}
}

func (r Result) WithRecommendation(rec string) Result {
	if strings.TrimSpace(rec) != "" {
		r[ResultKeyRecommendation] = rec
	}
	return r
}

func (r Result) Recommendation() string {
	v, _ := r[ResultKeyRecommendation].(string)
	return strings.TrimSpace(v)
}

// Payload returns the structured result as a map when it is one.
func (r Result) Payload() map[string]any {
	m, _ := r[ResultKeyResult].(map[string]any)
	return m
}

type FlightInfo struct {
	FlightNumber       string `json:"flight_number"`
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	ScheduledDeparture string `json:"scheduled_departure,omitempty"`
	Airline            string `json:"airline,omitempty"`
	CurrentStatus      string `json:"current_status,omitempty"`
}

func (f FlightInfo) Route() string {
	return fmt.Sprintf("%s to %s", f.Origin, f.Destination)
}

// Context converts the flight into the task context handed to agents.
func (f FlightInfo) Context() map[string]any {
	airline := strings.TrimSpace(f.Airline)
	if airline == "" {
		airline = "Unknown"
	}
	status := strings.TrimSpace(f.CurrentStatus)
	if status == "" {
		status = "SCHEDULED"
	}
	return map[string]any{
		"flight_number":       f.FlightNumber,
		"origin":              f.Origin,
		"destination":         f.Destination,
		"scheduled_departure": f.ScheduledDeparture,
		"airline":             airline,
		"current_status":      status,
	}
}

func FlightFromContext(taskCtx map[string]any) FlightInfo {
	str := func(key string) string {
		v, _ := taskCtx[key].(string)
		return strings.TrimSpace(v)
	}
	return FlightInfo{
		FlightNumber:       str("flight_number"),
		Origin:             str("origin"),
		Destination:        str("destination"),
		ScheduledDeparture: str("scheduled_departure"),
		Airline:            str("airline"),
		CurrentStatus:      str("current_status"),
	}
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// LatestUserMessage returns the last message authored by the user.
func LatestUserMessage(history []ChatMessage) (ChatMessage, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i], true
		}
	}
	return ChatMessage{}, false
}

type Contribution struct {
	Agent  string `json:"agent"`
	Task   string `json:"task"`
	Result Result `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Failed bool   `json:"failed"`
}

type CrewResult struct {
	TraceID         string         `json:"trace_id"`
	TripID          string         `json:"trip_id"`
	Status          string         `json:"status"`
	Flight          string         `json:"flight"`
	Origin          string         `json:"origin"`
	Destination     string         `json:"destination"`
	DelayStatus     string         `json:"delay_status,omitempty"`
	DelayReason     string         `json:"delay_reason"`
	EstimatedDelay  string         `json:"estimated_delay"`
	Recommendations []string       `json:"recommendations"`
	Contributions   []Contribution `json:"contributions"`
}

type RouteResult struct {
	Reply string         `json:"reply"`
	Agent string         `json:"agent"`
	Kind  AgentKind      `json:"kind"`
	Raw   map[string]any `json:"raw"`
}
