package crewnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

const (
	statusDelayed   = "DELAYED"
	statusCancelled = "CANCELLED"
	unknown         = "Unknown"
)

// Aggregate folds contributions in registration order. The delay analysis,
// when it succeeded, supplies the delay fields.
func Aggregate(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	res := contractx.CrewResult{
		TraceID:         in.TraceID,
		TripID:          in.TripID,
		Status:          statusDelayed,
		Flight:          in.Flight.FlightNumber,
		Origin:          in.Flight.Origin,
		Destination:     in.Flight.Destination,
		DelayReason:     unknown,
		EstimatedDelay:  unknown,
		Recommendations: []string{},
		Contributions:   in.Contributions,
	}

	seen := map[string]struct{}{}
	for i, c := range in.Contributions {
		if c.Failed {
			continue
		}
		if rec := c.Result.Recommendation(); rec != "" {
			if _, dup := seen[rec]; !dup {
				seen[rec] = struct{}{}
				res.Recommendations = append(res.Recommendations, rec)
			}
		}
		if in.Tasks[i].Kind != contractx.AgentKindDelay {
			continue
		}

		payload := c.Result.Payload()
		if v, ok := payload["delay_status"].(string); ok && strings.TrimSpace(v) != "" {
			res.DelayStatus = v
		}
		if v, ok := payload["delay_reason"].(string); ok && strings.TrimSpace(v) != "" {
			res.DelayReason = v
		}
		if minutes, ok := asMinutes(payload["predicted_delay_minutes"]); ok {
			res.EstimatedDelay = FormatDelay(minutes)
		}
	}

	if res.DelayStatus == statusCancelled {
		res.Status = statusCancelled
	}

	in.Result = res
	return in, nil
}

func FormatDelay(minutes int) string {
	if minutes <= 0 {
		return "No delay"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := "1 hour"
	if h := minutes / 60; h > 1 {
		hours = fmt.Sprintf("%d hours", h)
	}
	if m := minutes % 60; m > 0 {
		return fmt.Sprintf("%s %d minutes", hours, m)
	}
	return hours
}

func asMinutes(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
