package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

//go:embed template/roster.yaml
var rosterRaw []byte

type roster struct {
	Agents []contractx.AgentDescriptor `yaml:"agents"`
}

// LoadRoster returns the agent descriptors in registration order.
func LoadRoster() ([]contractx.AgentDescriptor, error) {
	return ParseRoster(rosterRaw)
}

func ParseRoster(raw []byte) ([]contractx.AgentDescriptor, error) {
	var r roster
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: decode roster: %v", contractx.ErrValidation, err)
	}

	seen := make(map[string]struct{}, len(r.Agents))
	out := make([]contractx.AgentDescriptor, 0, len(r.Agents))
	for _, d := range r.Agents {
		d.Name = strings.TrimSpace(d.Name)
		d.Backstory = strings.TrimSpace(d.Backstory)
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate agent name=%s", contractx.ErrValidation, d.Name)
		}
		seen[d.Name] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// SystemPrompt renders the persona an agent runs under.
func SystemPrompt(d contractx.AgentDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, acting as %s.\n", d.Name, d.Role)
	fmt.Fprintf(&b, "Goal: %s\n", d.Goal)
	if d.Backstory != "" {
		b.WriteString(d.Backstory)
		b.WriteString("\n")
	}
	b.WriteString("Answer the task concisely. The task context is provided as JSON.")
	return b.String()
}
