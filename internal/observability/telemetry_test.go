package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hoops-feed/internal/config"
	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

func TestSetup_NothingEnabled(t *testing.T) {
	t.Parallel()

	tel, err := Setup(config.Config{
		ServiceName:    "hoops-feed",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
		PprofEnabled:   true,
	}, logging.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracing())
	assert.False(t, tel.Profiling())
	require.NoError(t, tel.Shutdown(context.Background()))
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetup_TracingNeedsDSN(t *testing.T) {
	t.Parallel()

	tel, err := Setup(config.Config{UptraceEnabled: true}, nil)
	require.NoError(t, err)
	assert.False(t, tel.Tracing())
}

func TestTelemetry_NilShutdown(t *testing.T) {
	t.Parallel()

	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.Tracing())
}
