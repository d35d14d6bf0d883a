package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/flight-delay-crew/agent/contract"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(DefaultConfig)
	clock := &fakeClock{t: time.Date(2024, 3, 24, 10, 0, 0, 0, time.UTC)}
	s.now = clock.now
	return s
}

func TestStoreMergesReservedMetadata(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id, err := s.Store("WeatherChecker", "check_weather",
		map[string]any{"airport": "JFK"},
		map[string]string{"agent": "spoofed", "trip_id": "AA123_20240324"},
	)
	require.NoError(t, err)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "WeatherChecker", got.Metadata[MetaAgent])
	assert.Equal(t, "check_weather", got.Metadata[MetaTask])
	assert.Equal(t, "AA123_20240324", got.Metadata["trip_id"])
	assert.NotEmpty(t, got.Metadata[MetaTimestamp])
	assert.Equal(t, map[string]any{"airport": "JFK"}, got.Result)
}

func TestStoreRejectsUnserializableResult(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Store("WeatherChecker", "check_weather", map[string]any{"ch": make(chan int)}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contractx.ErrSerialization))
	assert.Equal(t, 0, s.Len())
}

func TestStoreAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	s := New(DefaultConfig)
	frozen := time.Date(2024, 3, 24, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		agent := fmt.Sprintf("agent-%d", i%3)
		id, err := s.Store(agent, "task", map[string]any{"i": i}, nil)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Equal(t, 1000, s.Len())
}

func TestRetrieveMatchesCaseInsensitive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Store("WeatherChecker", "check_weather", map[string]any{"condition": "Thunderstorms"}, nil)
	require.NoError(t, err)
	_, err = s.Store("FlightDelayScanner", "analyze_delay", map[string]any{"delay_reason": "Crew availability issues"}, nil)
	require.NoError(t, err)

	got := s.Retrieve("THUNDER", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "WeatherChecker", got[0].AgentName)
	assert.Equal(t, 1.0, got[0].Score)
}

func TestRetrieveFallsBackToMostRecent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var ids []string
	for i := 0; i < 4; i++ {
		id, err := s.Store("ChatSystem", "process_query", map[string]any{"query": fmt.Sprintf("q%d", i)}, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got := s.Retrieve("no such text", 3)
	require.Len(t, got, 3)
	assert.Equal(t, ids[3], got[0].ID)
	assert.Equal(t, ids[2], got[1].ID)
	assert.Equal(t, ids[1], got[2].ID)
	for _, it := range got {
		assert.Equal(t, 0.5, it.Score)
	}

	got = s.Retrieve("no such text", 10)
	assert.Len(t, got, 4)
}

func TestRetrieveOnEmptyStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	assert.Empty(t, s.Retrieve("anything", 5))
}

func TestRetrieveByAgentNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first, err := s.Store("WeatherChecker", "check_weather", map[string]any{"airport": "JFK"}, nil)
	require.NoError(t, err)
	_, err = s.Store("FlightDelayScanner", "analyze_delay", map[string]any{"flight": "AA123"}, nil)
	require.NoError(t, err)
	second, err := s.Store("WeatherChecker", "check_weather", map[string]any{"airport": "LAX"}, nil)
	require.NoError(t, err)

	got := s.RetrieveByAgent("WeatherChecker", 0)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, first, got[1].ID)
	assert.GreaterOrEqual(t, got[0].Metadata[MetaTimestamp], got[1].Metadata[MetaTimestamp])
}

func TestRetrieveByMetadataSupersetMatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Store("ChatSystem", "process_query", map[string]any{"q": 1}, map[string]string{"memory_key": "AA123_20240324"})
	require.NoError(t, err)
	want, err := s.Store("ChatSystem", "process_query", map[string]any{"q": 2}, map[string]string{"memory_key": "AA123_20240325"})
	require.NoError(t, err)

	got := s.RetrieveByMetadata(map[string]string{"agent": "ChatSystem", "memory_key": "AA123_20240325"}, 10)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0].ID)

	assert.Empty(t, s.RetrieveByMetadata(map[string]string{"memory_key": "missing"}, 10))
}

func TestRetrieveSkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	bad, err := s.Store("WeatherChecker", "check_weather", map[string]any{"airport": "JFK"}, nil)
	require.NoError(t, err)
	good, err := s.Store("WeatherChecker", "check_weather", map[string]any{"airport": "JFK"}, nil)
	require.NoError(t, err)

	s.records[s.byID[bad]].document = `{"airport": "JFK"`

	got := s.RetrieveByAgent("WeatherChecker", 10)
	require.Len(t, got, 1)
	assert.Equal(t, good, got[0].ID)

	got = s.Retrieve("jfk", 10)
	require.Len(t, got, 1)
	assert.Equal(t, good, got[0].ID)
}

func TestRetrieveDoesNotExposeInternalMetadata(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id, err := s.Store("WeatherChecker", "check_weather", map[string]any{"airport": "JFK"}, nil)
	require.NoError(t, err)

	got := s.RetrieveByAgent("WeatherChecker", 1)
	require.Len(t, got, 1)
	got[0].Metadata[MetaAgent] = "mutated"

	again, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "WeatherChecker", again.Metadata[MetaAgent])
}

func TestStoreConcurrentWriters(t *testing.T) {
	t.Parallel()

	s := New(DefaultConfig)
	const writers, perWriter = 8, 50

	var wg sync.WaitGroup
	ids := make(chan string, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id, err := s.Store(fmt.Sprintf("agent-%d", w), "task", map[string]any{"i": i}, nil)
				if err != nil {
					t.Errorf("Store() error = %v", err)
					return
				}
				ids <- id
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, writers*perWriter)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, writers*perWriter)
	assert.Equal(t, writers*perWriter, s.Len())
}
