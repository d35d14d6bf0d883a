package memory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
	logx "github.com/tanpawarit/flight-delay-crew/pkg/logger"
)

const (
	MetaAgent     = "agent"
	MetaTask      = "task"
	MetaTimestamp = "timestamp"

	matchScore    = 1.0
	fallbackScore = 0.5
)

type Config struct {
	CollectionName string `split_words:"true" default:"flight_delay_interactions"`
	RetrieveLimit  int    `split_words:"true" default:"5"`
	AgentLimit     int    `split_words:"true" default:"10"`
}

var DefaultConfig = Config{
	CollectionName: "flight_delay_interactions",
	RetrieveLimit:  5,
	AgentLimit:     10,
}

var _ contractx.InteractionIndex = (*Store)(nil)

// Store is a process-local, append-only interaction history. Records are
// never deleted; they live as long as the Store value.
type Store struct {
	mu      sync.RWMutex
	records []record
	byID    map[string]int
	seq     uint64

	collection    string
	retrieveLimit int
	agentLimit    int

	now    func() time.Time
	logger zerolog.Logger
}

type record struct {
	id        string
	agentName string
	task      string
	document  string
	metadata  map[string]string
	storedAt  time.Time
	seq       uint64
}

func New(cfg Config) *Store {
	collection := strings.TrimSpace(cfg.CollectionName)
	if collection == "" {
		collection = DefaultConfig.CollectionName
	}
	retrieveLimit := cfg.RetrieveLimit
	if retrieveLimit <= 0 {
		retrieveLimit = DefaultConfig.RetrieveLimit
	}
	agentLimit := cfg.AgentLimit
	if agentLimit <= 0 {
		agentLimit = DefaultConfig.AgentLimit
	}

	return &Store{
		byID:          make(map[string]int, 64),
		collection:    collection,
		retrieveLimit: retrieveLimit,
		agentLimit:    agentLimit,
		now:           time.Now,
		logger:        logx.Component("memory").With().Str("collection", collection).Logger(),
	}
}

func (s *Store) Collection() string {
	return s.collection
}

// Store serializes result and appends it. Nothing is written when result
// cannot be serialized.
func (s *Store) Store(agentName string, task string, result any, metadata map[string]string) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", goerr.Wrap(contractx.ErrSerialization, "marshal interaction result",
			goerr.V("agent", agentName),
			goerr.V("task", task),
			goerr.V("cause", err.Error()),
		)
	}

	now := s.now()
	meta := make(map[string]string, len(metadata)+3)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[MetaAgent] = agentName
	meta[MetaTask] = task
	meta[MetaTimestamp] = formatTimestamp(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := fmt.Sprintf("%s_%d_%d", agentName, now.Unix(), s.seq)
	s.byID[id] = len(s.records)
	s.records = append(s.records, record{
		id:        id,
		agentName: agentName,
		task:      task,
		document:  string(payload),
		metadata:  meta,
		storedAt:  now,
		seq:       s.seq,
	})

	return id, nil
}

// Get returns a single interaction by id.
func (s *Store) Get(id string) (contractx.Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return contractx.Interaction{}, false
	}
	out, err := s.records[idx].interaction(0)
	if err != nil {
		return contractx.Interaction{}, false
	}
	return out, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Retrieve matches query case-insensitively against each stored result. When
// nothing matches, the most recent interactions are returned at a lower
// score so callers always get some context.
func (s *Store) Retrieve(query string, limit int) []contractx.Interaction {
	if limit <= 0 {
		limit = s.retrieveLimit
	}
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*record, 0, limit)
	for i := range s.records {
		if strings.Contains(strings.ToLower(s.records[i].document), needle) {
			matches = append(matches, &s.records[i])
		}
	}
	if len(matches) > 0 {
		return s.collect(matches, limit, matchScore)
	}

	return s.collect(s.recentLocked(nil), limit, fallbackScore)
}

func (s *Store) RetrieveByAgent(agentName string, limit int) []contractx.Interaction {
	if limit <= 0 {
		limit = s.agentLimit
	}
	return s.RetrieveByMetadata(map[string]string{MetaAgent: agentName}, limit)
}

// RetrieveByMetadata returns interactions whose metadata contains every
// pair of filter, newest first.
func (s *Store) RetrieveByMetadata(filter map[string]string, limit int) []contractx.Interaction {
	if limit <= 0 {
		limit = s.agentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(s.recentLocked(func(r *record) bool {
		for k, v := range filter {
			if got, ok := r.metadata[k]; !ok || got != v {
				return false
			}
		}
		return true
	}), limit, 0)
}

// recentLocked returns the records accepted by keep ordered by timestamp
// descending; later inserts win ties.
func (s *Store) recentLocked(keep func(*record) bool) []*record {
	out := make([]*record, 0, len(s.records))
	for i := range s.records {
		r := &s.records[i]
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].timestamp(), out[j].timestamp()
		if ti != tj {
			return ti > tj
		}
		return out[i].seq > out[j].seq
	})
	return out
}

func (s *Store) collect(recs []*record, limit int, score float64) []contractx.Interaction {
	if len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]contractx.Interaction, 0, len(recs))
	for _, r := range recs {
		it, err := r.interaction(score)
		if err != nil {
			s.logger.Debug().Err(err).Str("id", r.id).Msg("skipping malformed interaction")
			continue
		}
		out = append(out, it)
	}
	return out
}

func (r *record) interaction(score float64) (contractx.Interaction, error) {
	var result any
	if err := json.Unmarshal([]byte(r.document), &result); err != nil {
		return contractx.Interaction{}, fmt.Errorf("decode interaction %s: %w", r.id, err)
	}
	meta := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		meta[k] = v
	}
	return contractx.Interaction{
		ID:        r.id,
		AgentName: r.agentName,
		Task:      r.task,
		Result:    result,
		Metadata:  meta,
		Score:     score,
		StoredAt:  r.storedAt,
	}, nil
}

func (r *record) timestamp() float64 {
	ts, err := strconv.ParseFloat(r.metadata[MetaTimestamp], 64)
	if err != nil {
		return 0
	}
	return ts
}

func formatTimestamp(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
}
