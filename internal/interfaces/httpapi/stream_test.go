package httpapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

type gaugeRecorder struct {
	mu   sync.Mutex
	last int
}

func (g *gaugeRecorder) StreamClients(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = n
}

func (g *gaugeRecorder) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readStreamMessage(t *testing.T, conn *websocket.Conn) streamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg streamMessage
	require.NoError(t, sonic.Unmarshal(raw, &msg))
	return msg
}

func waitForClients(t *testing.T, hub *StreamHub, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == want }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamHub_SendsCurrentThenPublished(t *testing.T) {
	gauge := &gaugeRecorder{}
	hub := NewStreamHub(StreamConfig{
		Snapshots: &fakeSnapshots{dashboard: sampleDashboard()},
		Gauge:     gauge,
	})
	srv := httptest.NewServer(NewRouter(RouterConfig{
		Handler: NewHandler(&fakeSnapshots{}, &fakeRefresher{}, nil),
		Stream:  hub,
	}))
	defer srv.Close()

	conn := dialStream(t, srv)

	first := readStreamMessage(t, conn)
	assert.Equal(t, "dashboard", first.Type)
	assert.Equal(t, "cycle-1", first.Data.CycleID)

	waitForClients(t, hub, 1)
	assert.Equal(t, 1, gauge.value())

	require.NoError(t, hub.Publish(context.Background(), usecase.Dashboard{CycleID: "cycle-2", Feed: "live"}))
	second := readStreamMessage(t, conn)
	assert.Equal(t, "cycle-2", second.Data.CycleID)
	assert.Equal(t, "live", second.Data.Feed)
}

func TestStreamHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewStreamHub(StreamConfig{})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)
	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://courtside.example.com"})

	req := httptest.NewRequest("GET", "/v1/stream", nil)
	assert.True(t, check(req), "requests without origin are allowed")

	req.Header.Set("Origin", "https://courtside.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
