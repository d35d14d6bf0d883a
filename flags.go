package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

func bindFlightFlags(cmd *cobra.Command, f *contractx.FlightInfo) {
	cmd.Flags().StringVar(&f.FlightNumber, "flight", "", "flight number, e.g. AA123")
	cmd.Flags().StringVar(&f.Origin, "origin", "", "origin airport code")
	cmd.Flags().StringVar(&f.Destination, "destination", "", "destination airport code")
	cmd.Flags().StringVar(&f.ScheduledDeparture, "departure", "", "scheduled departure (RFC 3339)")
	cmd.Flags().StringVar(&f.Airline, "airline", "", "operating airline")
	_ = cmd.MarkFlagRequired("flight")
}

func normalizeFlight(f contractx.FlightInfo) contractx.FlightInfo {
	f.FlightNumber = strings.ToUpper(strings.TrimSpace(f.FlightNumber))
	f.Origin = strings.ToUpper(strings.TrimSpace(f.Origin))
	f.Destination = strings.ToUpper(strings.TrimSpace(f.Destination))
	return f
}

func writeJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
