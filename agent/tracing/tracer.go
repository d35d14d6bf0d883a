package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	logx "github.com/tanpawarit/flight-delay-crew/pkg/logger"
)

const (
	instrumentationName = "github.com/tanpawarit/flight-delay-crew/agent/tracing"
	maxPayloadPreview   = 200
)

type Config struct {
	Enabled bool `split_words:"true" default:"true"`
}

var (
	_ contractx.Tracer     = (*Tracer)(nil)
	_ contractx.SpanScoper = (*Tracer)(nil)
)

// Tracer emits structured events for agent activity. Every method swallows
// its own failures; telemetry never breaks the caller.
type Tracer struct {
	enabled bool
	logger  zerolog.Logger
	tracer  oteltrace.Tracer

	executions metric.Int64Counter
	failures   metric.Int64Counter

	mu    sync.Mutex
	spans map[string]oteltrace.Span
}

type Option func(*Tracer)

func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tracer) {
		t.logger = logger
	}
}

func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(t *Tracer) {
		if tp != nil {
			t.tracer = tp.Tracer(instrumentationName)
		}
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(t *Tracer) {
		if mp != nil {
			t.initInstruments(mp.Meter(instrumentationName))
		}
	}
}

func New(cfg Config, opts ...Option) *Tracer {
	t := &Tracer{
		enabled: cfg.Enabled,
		logger:  logx.Component("tracing"),
		tracer:  otel.Tracer(instrumentationName),
		spans:   make(map[string]oteltrace.Span, 8),
	}
	t.initInstruments(otel.Meter(instrumentationName))

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	if t.enabled {
		t.logger.Info().Msg("monitoring enabled")
	}
	return t
}

func (t *Tracer) initInstruments(meter metric.Meter) {
	execs, err := meter.Int64Counter("flightcrew.agent.executions",
		metric.WithDescription("Agent executions recorded by the tracer"),
	)
	if err == nil {
		t.executions = execs
	}
	fails, err := meter.Int64Counter("flightcrew.agent.errors",
		metric.WithDescription("Agent errors recorded by the tracer"),
	)
	if err == nil {
		t.failures = fails
	}
}

func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

func (t *Tracer) StartTrace(ctx context.Context, traceID string, name string) {
	if !t.Enabled() {
		return
	}
	defer t.recoverAs("start trace")

	_, span := t.tracer.Start(ctx, name, oteltrace.WithAttributes(
		attribute.String("flightcrew.trace_id", traceID),
	))

	t.mu.Lock()
	if prev, ok := t.spans[traceID]; ok {
		prev.End()
	}
	t.spans[traceID] = span
	t.mu.Unlock()

	t.logger.Info().Str("trace_id", traceID).Str("name", name).Msg("starting trace")
}

func (t *Tracer) EndTrace(ctx context.Context, traceID string) {
	if !t.Enabled() {
		return
	}
	defer t.recoverAs("end trace")

	t.mu.Lock()
	span, ok := t.spans[traceID]
	delete(t.spans, traceID)
	t.mu.Unlock()

	if ok {
		span.End()
	}
	t.logger.Info().Str("trace_id", traceID).Msg("ending trace")
}

// OpenTraces reports how many traces were started and not yet ended.
func (t *Tracer) OpenTraces() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}

func (t *Tracer) LogAgentExecution(
	ctx context.Context,
	agentName string,
	task string,
	result any,
	metadata map[string]string,
) {
	if !t.Enabled() {
		t.logger.Debug().Str("agent", agentName).Msg("monitoring disabled, not logging agent execution")
		return
	}
	defer t.recoverAs("log agent execution")

	preview, err := previewPayload(result)
	if err != nil {
		t.logger.Warn().Err(err).Str("agent", agentName).Str("task", task).Msg("failed to log agent execution")
		return
	}

	t.logger.Info().Str("agent", agentName).Str("task", task).Msg("agent execution")
	t.logger.Debug().
		Str("agent", agentName).
		Str("result", preview).
		Fields(metaFields(agentName, task, metadata)).
		Msg("agent execution detail")

	if t.executions != nil {
		t.executions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("agent", agentName),
			attribute.String("task", task),
		))
	}
}

func (t *Tracer) LogError(
	ctx context.Context,
	agentName string,
	task string,
	err error,
	metadata map[string]string,
) {
	if !t.Enabled() {
		t.logger.Debug().Str("agent", agentName).Msg("monitoring disabled, not logging error")
		return
	}
	defer t.recoverAs("log error")

	fields := metaFields(agentName, task, metadata)
	fields["error_type"] = fmt.Sprintf("%T", err)

	t.logger.Error().Err(err).Str("agent", agentName).Str("task", task).Msg("agent error")
	t.logger.Debug().Fields(fields).Msg("agent error metadata")

	if span := oteltrace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, agentName+": "+task)
	}
	if t.failures != nil {
		t.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("agent", agentName),
			attribute.String("task", task),
		))
	}
}

// SpanContext returns ctx carrying the span of an open trace so that work
// done under it is parented correctly.
func (t *Tracer) SpanContext(ctx context.Context, traceID string) context.Context {
	if !t.Enabled() {
		return ctx
	}
	t.mu.Lock()
	span, ok := t.spans[traceID]
	t.mu.Unlock()
	if !ok {
		return ctx
	}
	return oteltrace.ContextWithSpan(ctx, span)
}

func (t *Tracer) recoverAs(op string) {
	if r := recover(); r != nil {
		t.logger.Warn().Str("op", op).Interface("panic", r).Msg("tracer recovered from panic")
	}
}

func previewPayload(result any) (string, error) {
	var text string
	switch v := result.(type) {
	case nil:
		text = ""
	case string:
		text = v
	case fmt.Stringer:
		text = v.String()
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal agent result: %w", err)
		}
		text = string(raw)
	}
	if len(text) > maxPayloadPreview {
		cut := maxPayloadPreview
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text, nil
}

func metaFields(agentName, task string, metadata map[string]string) map[string]any {
	fields := make(map[string]any, len(metadata)+3)
	fields["agent"] = agentName
	fields["task"] = task
	fields["timestamp"] = float64(time.Now().UnixMicro()) / 1e6
	for k, v := range metadata {
		fields[k] = v
	}
	return fields
}
