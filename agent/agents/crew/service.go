package crew

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	nodex "github.com/tanpawarit/flight-delay-crew/agent/nodes/crew"
	logx "github.com/tanpawarit/flight-delay-crew/pkg/logger"
)

type Config struct {
	MaxConcurrency int           `split_words:"true" default:"0"`
	AgentTimeout   time.Duration `split_words:"true" default:"30s"`
}

// Coordinator fans a flight event out to the whole crew. Each HandleEvent
// call is independent; nothing is kept between calls.
type Coordinator struct {
	agents []contractx.Agent
	store  contractx.InteractionIndex
	tracer contractx.Tracer
	policy nodex.InvokePolicy

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now        func() time.Time
	newTraceID func() string
	logger     zerolog.Logger
}

func New(
	agents []contractx.Agent,
	store contractx.InteractionIndex,
	tracer contractx.Tracer,
	cfg Config,
) (*Coordinator, error) {
	if store == nil {
		store = noopIndex{}
	}
	if tracer == nil {
		tracer = noopTracer{}
	}

	c := &Coordinator{
		agents: append([]contractx.Agent(nil), agents...),
		store:  store,
		tracer: tracer,
		policy: nodex.InvokePolicy{
			MaxConcurrency: cfg.MaxConcurrency,
			AgentTimeout:   cfg.AgentTimeout,
		},
		now:        time.Now,
		newTraceID: uuid.NewString,
		logger:     logx.Component("crew"),
	}

	graphRunner, err := c.compileHandleEventGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

func (c *Coordinator) HandleEvent(ctx context.Context, flight contractx.FlightInfo) (contractx.CrewResult, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{Flight: flight})
	if err != nil {
		return contractx.CrewResult{}, err
	}
	return out.Result, nil
}

type noopIndex struct{}

func (noopIndex) Store(string, string, any, map[string]string) (string, error) {
	return "", nil
}

func (noopIndex) Retrieve(string, int) []contractx.Interaction {
	return nil
}

func (noopIndex) RetrieveByAgent(string, int) []contractx.Interaction {
	return nil
}

func (noopIndex) RetrieveByMetadata(map[string]string, int) []contractx.Interaction {
	return nil
}

type noopTracer struct{}

func (noopTracer) StartTrace(context.Context, string, string) {}

func (noopTracer) EndTrace(context.Context, string) {}

func (noopTracer) LogAgentExecution(context.Context, string, string, any, map[string]string) {}

func (noopTracer) LogError(context.Context, string, string, error, map[string]string) {}
