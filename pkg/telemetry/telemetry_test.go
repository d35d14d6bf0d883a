package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Parallel()

	cfg := Config{ServiceName: "flight-delay-crew"}
	assert.False(t, cfg.Enabled())

	shutdown, err := Init(context.Background(), cfg, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()

	assert.True(t, Config{Endpoint: "localhost:4318"}.Enabled())
	assert.False(t, Config{Endpoint: "   "}.Enabled())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Config{SampleRatio: 0.25, ExportInterval: time.Second}.Validate())
	assert.Error(t, Config{SampleRatio: 1.5}.Validate())
	assert.Error(t, Config{SampleRatio: -0.1}.Validate())
	assert.Error(t, Config{SampleRatio: 1, ExportInterval: -time.Second}.Validate())
}

func TestInitRejectsBadSampleRatio(t *testing.T) {
	t.Parallel()

	_, err := Init(context.Background(), Config{Endpoint: "localhost:4318", SampleRatio: 2}, "test")
	assert.ErrorContains(t, err, "sample ratio")
}

func TestSamplerFollowsRatio(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Config{SampleRatio: 1}.sampler().Description(), "AlwaysOnSampler")
	assert.Contains(t, Config{SampleRatio: 0.5}.sampler().Description(), "TraceIDRatioBased{0.5}")
	assert.Equal(t, 15*time.Second, Config{}.interval())
	assert.Equal(t, time.Second, Config{ExportInterval: time.Second}.interval())
}
