package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type airportWeather struct {
	Condition   string
	Temperature string
	Wind        string
	Risk        string
}

var weatherTable = map[string]airportWeather{
	"JFK": {Condition: "Clear", Temperature: "72°F", Wind: "5mph NE", Risk: "Low"},
	"LAX": {Condition: "Sunny", Temperature: "82°F", Wind: "8mph W", Risk: "Low"},
	"ORD": {Condition: "Overcast", Temperature: "65°F", Wind: "12mph NW", Risk: "Moderate"},
	"DFW": {Condition: "Thunderstorms", Temperature: "75°F", Wind: "20mph S", Risk: "High"},
	"ATL": {Condition: "Rain", Temperature: "70°F", Wind: "15mph SE", Risk: "Moderate"},
}

var unknownWeather = airportWeather{Condition: "Unknown", Temperature: "70°F", Wind: "10mph", Risk: "Unknown"}

type Weather struct {
	base
}

var _ contractx.WeatherChecker = (*Weather)(nil)

func NewWeather(desc contractx.AgentDescriptor) *Weather {
	return &Weather{base: base{desc: desc}}
}

// CheckWeather reports the conditions at an airport from the fixed table.
func (w *Weather) CheckWeather(ctx context.Context, airport string, dateTime string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	airport = strings.TrimSpace(airport)
	if airport == "" {
		return nil, fmt.Errorf("%w: airport code is required", contractx.ErrInvalidRequest)
	}

	wx, ok := weatherTable[strings.ToUpper(airport)]
	if !ok {
		wx = unknownWeather
	}

	return map[string]any{
		"airport":     airport,
		"timestamp":   dateTime,
		"condition":   wx.Condition,
		"temperature": wx.Temperature,
		"wind":        wx.Wind,
		"delay_risk":  wx.Risk,
		"summary": fmt.Sprintf("Weather at %s is %s with %s. Wind: %s. Delay risk: %s.",
			airport, wx.Condition, wx.Temperature, wx.Wind, wx.Risk),
	}, nil
}

// Invoke checks the destination, falling back to the origin.
func (w *Weather) Invoke(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	flight := contractx.FlightFromContext(taskCtx)
	airport := valueOr(flight.Destination, flight.Origin)

	report, err := w.CheckWeather(ctx, airport, flight.ScheduledDeparture)
	if err != nil {
		return nil, err
	}

	return contractx.NewResult(w.desc.Name, task, taskCtx, report).
		WithRecommendation(weatherRecommendation(airport, report["delay_risk"].(string))), nil
}

func weatherRecommendation(airport string, risk string) string {
	switch risk {
	case "High":
		return fmt.Sprintf("Expect weather disruption at %s", airport)
	case "Moderate":
		return fmt.Sprintf("Watch weather updates for %s", airport)
	default:
		return ""
	}
}
