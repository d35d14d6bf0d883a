package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

const chatHelp = `Type a question about your flight, or one of:
  /event            run the whole crew for this flight
  /history [agent]  list stored interactions (default: chat turns)
  /recall <words>   search stored interactions
  /show <id>        print one stored interaction in full
  /quit             leave the session`

// newChatCmd creates the "flightcrew chat" subcommand. The interaction
// store lives for the whole session, so /history and /recall see every turn.
func newChatCmd() *cobra.Command {
	var flight contractx.FlightInfo

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session about one flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runChat(ctx, a, normalizeFlight(flight), cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}

	bindFlightFlags(cmd, &flight)
	return cmd
}

func runChat(ctx context.Context, a *app, flight contractx.FlightInfo, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Flight %s %s -> %s\n%s\n", flight.FlightNumber, flight.Origin, flight.Destination, chatHelp)

	var history []contractx.ChatMessage
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := runChatCommand(ctx, a, flight, line, out)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		history = append(history, contractx.ChatMessage{Role: contractx.RoleUser, Content: line})
		res, err := a.router.Route(ctx, history, flight)
		if err != nil {
			if errors.Is(err, contractx.ErrInvalidRequest) {
				return err
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		history = append(history, contractx.ChatMessage{Role: contractx.RoleAssistant, Content: res.Reply})
		fmt.Fprintln(out, res.Reply)
	}
}

func runChatCommand(ctx context.Context, a *app, flight contractx.FlightInfo, line string, out io.Writer) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(out, chatHelp)
	case "event":
		res, err := a.crew.HandleEvent(ctx, flight)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%s: %s, %s (%s)\n", res.Flight, res.Status, res.DelayReason, res.EstimatedDelay)
		for _, rec := range res.Recommendations {
			fmt.Fprintf(out, "  - %s\n", rec)
		}
	case "history":
		agent := arg
		if agent == "" {
			agent = "ChatSystem"
		}
		fmt.Fprintf(out, "%s in %s:\n", agent, a.store.Collection())
		printInteractions(out, a.store.RetrieveByAgent(agent, 0))
	case "recall":
		if arg == "" {
			return false, errors.New("recall needs search words")
		}
		printInteractions(out, a.store.Retrieve(arg, 0))
	case "show":
		it, ok := a.store.Get(arg)
		if !ok {
			return false, fmt.Errorf("no interaction with id %q", arg)
		}
		return false, writeJSON(out, it)
	default:
		return false, fmt.Errorf("unknown command /%s", name)
	}
	return false, nil
}

func printInteractions(out io.Writer, items []contractx.Interaction) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No interactions stored.")
		return
	}
	for _, it := range items {
		line := fmt.Sprintf("[%s] %s %s/%s", it.StoredAt.Format("15:04:05"), it.ID, it.AgentName, it.Task)
		if it.Score > 0 {
			line += fmt.Sprintf(" score=%.1f", it.Score)
		}
		fmt.Fprintln(out, line)
	}
}
