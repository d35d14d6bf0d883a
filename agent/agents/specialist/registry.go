package specialist

import (
	"fmt"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type registryImpl struct {
	agents    []contractx.Agent
	weather   contractx.WeatherChecker
	delay     contractx.DelayAnalyzer
	routes    contractx.RouteSuggester
	organizer contractx.TravelAdvisor
}

func (r *registryImpl) Agents() []contractx.Agent {
	out := make([]contractx.Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

func (r *registryImpl) Weather() contractx.WeatherChecker {
	return r.weather
}

func (r *registryImpl) Delay() contractx.DelayAnalyzer {
	return r.delay
}

func (r *registryImpl) Routes() contractx.RouteSuggester {
	return r.routes
}

func (r *registryImpl) Organizer() contractx.TravelAdvisor {
	return r.organizer
}

// NewRegistry builds one specialist per roster entry, keeping roster order.
// Every kind may appear at most once, and the four kinds the router
// addresses directly must be present.
func NewRegistry(roster []contractx.AgentDescriptor, runtime contractx.AgentRuntime) (contractx.Registry, error) {
	if runtime == nil {
		return nil, fmt.Errorf("%w: agent runtime is required", contractx.ErrValidation)
	}

	reg := &registryImpl{agents: make([]contractx.Agent, 0, len(roster))}
	seen := make(map[contractx.AgentKind]struct{}, len(roster))
	for _, d := range roster {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[d.Kind]; dup {
			return nil, fmt.Errorf("%w: duplicate agent kind=%s", contractx.ErrValidation, d.Kind)
		}
		seen[d.Kind] = struct{}{}

		var agent contractx.Agent
		switch d.Kind {
		case contractx.AgentKindWeather:
			w := NewWeather(d)
			reg.weather, agent = w, w
		case contractx.AgentKindDelay:
			dl := NewDelay(d)
			reg.delay, agent = dl, dl
		case contractx.AgentKindReservation:
			agent = NewReservation(d, runtime)
		case contractx.AgentKindNotifier:
			agent = NewNotifier(d, runtime)
		case contractx.AgentKindRoutes:
			rt := NewRoutes(d)
			reg.routes, agent = rt, rt
		case contractx.AgentKindOrganizer:
			o := NewOrganizer(d, runtime)
			reg.organizer, agent = o, o
		default:
			return nil, fmt.Errorf("%w: unknown agent kind=%s for agent=%s", contractx.ErrValidation, d.Kind, d.Name)
		}
		reg.agents = append(reg.agents, agent)
	}

	switch {
	case reg.weather == nil:
		return nil, fmt.Errorf("%w: roster has no %s agent", contractx.ErrValidation, contractx.AgentKindWeather)
	case reg.delay == nil:
		return nil, fmt.Errorf("%w: roster has no %s agent", contractx.ErrValidation, contractx.AgentKindDelay)
	case reg.routes == nil:
		return nil, fmt.Errorf("%w: roster has no %s agent", contractx.ErrValidation, contractx.AgentKindRoutes)
	case reg.organizer == nil:
		return nil, fmt.Errorf("%w: roster has no %s agent", contractx.ErrValidation, contractx.AgentKindOrganizer)
	}

	return reg, nil
}

// ReservationFrom finds the reservation adjuster in reg. The roster may
// leave it out.
func ReservationFrom(reg contractx.Registry) (*Reservation, bool) {
	return find[*Reservation](reg)
}

// NotifierFrom finds the stakeholder notifier in reg.
func NotifierFrom(reg contractx.Registry) (*Notifier, bool) {
	return find[*Notifier](reg)
}

func find[T contractx.Agent](reg contractx.Registry) (T, bool) {
	var zero T
	if reg == nil {
		return zero, false
	}
	for _, agent := range reg.Agents() {
		if v, ok := agent.(T); ok {
			return v, true
		}
	}
	return zero, false
}
