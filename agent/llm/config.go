package llm

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	openrouterx "github.com/tanpawarit/flight-delay-crew/pkg/openrouter"
)

// Config holds the model settings shared by every agent plus optional
// per-kind overrides, e.g. LLM_MODEL_OVERRIDES=weather:openai/gpt-4o-mini.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	ModelOverrides       map[string]string `envconfig:"MODEL_OVERRIDES" split_words:"true"`
	TemperatureOverrides map[string]string `envconfig:"TEMPERATURE_OVERRIDES" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	for kind, raw := range c.TemperatureOverrides {
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 32); err != nil {
			return fmt.Errorf("%w: invalid temperature override for kind=%s: %v", contractx.ErrValidation, kind, err)
		}
	}
	return nil
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Model) != ""
}

func (c Config) OpenRouterFor(kind contractx.AgentKind) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	if v := strings.TrimSpace(c.ModelOverrides[string(kind)]); v != "" {
		modelName = v
	}

	temp := c.Temperature
	if raw := strings.TrimSpace(c.TemperatureOverrides[string(kind)]); raw != "" {
		if v, err := strconv.ParseFloat(raw, 32); err == nil && v >= 0 {
			temp = float32(v)
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
