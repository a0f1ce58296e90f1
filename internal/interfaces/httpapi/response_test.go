package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

func TestWriteView_CarriesCycleMeta(t *testing.T) {
	t.Parallel()

	updated := time.Date(2026, 1, 12, 1, 0, 0, 0, time.UTC)
	origin := usecase.Provenance{CycleID: "cycle-9", Feed: "live", UpdatedAt: updated}

	rec := httptest.NewRecorder()
	writeView(rec, updated.Add(90*time.Second), origin, true, map[string]string{"k": "v"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "2.0", body["apiVersion"])
	assert.NotContains(t, body, "error")

	meta := body["meta"].(map[string]any)
	assert.Equal(t, "cycle-9", meta["cycle_id"])
	assert.Equal(t, "live", meta["feed"])
	assert.EqualValues(t, 90, meta["age_seconds"])
	assert.Equal(t, true, meta["degraded"])
}

func TestWriteData_HasNoMeta(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeData(rec, http.StatusAccepted, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Contains(t, body, "data")
	assert.NotContains(t, body, "meta")
}

func TestWriteError_Classes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), code: http.StatusBadRequest, status: "INVALID_ARGUMENT"},
		{name: "expired snapshot", err: fmt.Errorf("%w: no snapshot", usecase.ErrNotFound), code: http.StatusNotFound, status: "NOT_FOUND"},
		{name: "busy feed", err: fmt.Errorf("%w: feed live", usecase.ErrFeedBusy), code: http.StatusConflict, status: "ABORTED"},
		{name: "redis down", err: fmt.Errorf("%w: redis", usecase.ErrDependencyUnavailable), code: http.StatusServiceUnavailable, status: "UNAVAILABLE"},
		{name: "unclassified", err: errors.New("boom"), code: http.StatusInternalServerError, status: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			require.Equal(t, tt.code, rec.Code)

			errBody := decodeEnvelope(t, rec)["error"].(map[string]any)
			assert.Equal(t, tt.status, errBody["status"])
			assert.EqualValues(t, tt.code, errBody["code"])
		})
	}
}

func TestWriteError_HidesInternalText(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.7:6379: connection refused"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
	assert.Equal(t, internalMessage, decodeEnvelope(t, rec)["error"].(map[string]any)["message"])
}
