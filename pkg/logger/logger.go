package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is read from LOG_*. Level wins over Debug when both are set.
type Config struct {
	Level        string `split_words:"true" default:""`
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
}

var DefaultConfig = &Config{}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global logger. Output goes to stderr so command output
// on stdout stays machine readable.
func Init(opts ...Config) {
	InitWriter(os.Stderr, opts...)
}

func InitWriter(w io.Writer, opts ...Config) {
	conf := safe(opts...)

	var out io.Writer = w
	if conf.PrettyFormat {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	log.Logger = zerolog.New(out).
		Level(conf.level()).
		With().Timestamp().Caller().Stack().
		Logger()
}

func (c *Config) level() zerolog.Level {
	if raw := strings.TrimSpace(c.Level); raw != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			return lvl
		}
	}
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Component derives a child of the global logger tagged with the component
// name. Call it at construction time; later Init calls are not picked up.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
