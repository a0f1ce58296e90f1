package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := ParseFormat("Console")
	require.NoError(t, err)
	assert.Equal(t, FormatConsole, got)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "hoops-feed", Output: &buf}).Named("feed.live")

	logger.Debug("hidden")
	logger.WarnContext(context.Background(), "provider failed", "provider", "apisports-live", "error", errors.New("boom"), "dangling")

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "feed.live", entry["logger"])
	assert.Equal(t, "hoops-feed", entry["service"])
	assert.Equal(t, "apisports-live", entry["provider"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "dangling")
	assert.NotContains(t, buf.String(), "hidden")
}
