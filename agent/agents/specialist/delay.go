package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

var delayStatuses = []string{"ON TIME", "SLIGHT DELAY", "DELAYED", "SIGNIFICANTLY DELAYED", "CANCELLED"}

var delayReasons = []string{
	"No delays expected",
	"Minor air traffic congestion",
	"Weather conditions at destination",
	"Technical maintenance required",
	"Crew availability issues",
	"Airport capacity constraints",
	"Air traffic control restrictions",
	"Previous flight delay impact",
	"Incoming aircraft delayed",
	"Operational constraints",
}

type Delay struct {
	base
}

var _ contractx.DelayAnalyzer = (*Delay)(nil)

func NewDelay(desc contractx.AgentDescriptor) *Delay {
	return &Delay{base: base{desc: desc}}
}

// AnalyzeDelay derives a deterministic prediction from the flight number's
// last digit; a non-digit suffix counts as zero.
func (d *Delay) AnalyzeDelay(ctx context.Context, flightNumber string, route string, date string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	flightNumber = strings.TrimSpace(flightNumber)
	if flightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", contractx.ErrInvalidRequest)
	}

	digit := 0
	if last := flightNumber[len(flightNumber)-1]; last >= '0' && last <= '9' {
		digit = int(last - '0')
	}

	statusIdx := digit % len(delayStatuses)
	reasonIdx := (digit * 2) % len(delayReasons)
	minutes := 0
	if statusIdx > 0 {
		minutes = digit * 15
	}

	recommendation := "Monitor flight status"
	if minutes >= 30 {
		recommendation = "Consider alternative arrangements"
	}

	return map[string]any{
		"flight_number":           flightNumber,
		"route":                   route,
		"date":                    date,
		"delay_status":            delayStatuses[statusIdx],
		"delay_reason":            delayReasons[reasonIdx],
		"predicted_delay_minutes": minutes,
		"confidence":              "90%",
		"recommendation":          recommendation,
	}, nil
}

func (d *Delay) Invoke(ctx context.Context, task string, taskCtx map[string]any) (contractx.Result, error) {
	flight := contractx.FlightFromContext(taskCtx)

	analysis, err := d.AnalyzeDelay(ctx, flight.FlightNumber, flight.Route(), flight.ScheduledDeparture)
	if err != nil {
		return nil, err
	}

	rec, _ := analysis["recommendation"].(string)
	return contractx.NewResult(d.desc.Name, task, taskCtx, analysis).WithRecommendation(rec), nil
}
