package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu         sync.Mutex
	dashboards []Dashboard
}

func (s *recordingSink) Publish(_ context.Context, d Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboards = append(s.dashboards, d)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dashboards)
}

type countingMetrics struct {
	nopMetrics
	mu      sync.Mutex
	dropped int
}

func (m *countingMetrics) TriggerDropped(string) {
	m.mu.Lock()
	m.dropped++
	m.mu.Unlock()
}

func newBlockingFeed(t *testing.T, release <-chan struct{}, entered chan<- struct{}, sink Sink, metrics Metrics) *Feed {
	t.Helper()

	fetcher := &stubFetcher{fetch: func(ctx context.Context, _ ProviderDescriptor) (RawPayload, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-ctx.Done():
			return RawPayload{}, ctx.Err()
		}
		return RawPayload{Body: []byte(`{}`), Status: 200}, nil
	}}
	provider := stubProvider(KindStandings, "sportradar-standings", fetcher, standingsDecoded())
	provider.Descriptor.Timeout = 5 * time.Second

	feed, err := NewFeed(FeedConfig{
		Name:         "board",
		Interval:     time.Minute,
		Orchestrator: newTestOrchestrator(t, provider),
		Sinks:        []Sink{sink},
		Metrics:      metrics,
	})
	require.NoError(t, err)
	return feed
}

func TestFeed_DropsTriggersWhileInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	sink := &recordingSink{}
	metrics := &countingMetrics{}
	feed := newBlockingFeed(t, release, entered, sink, metrics)

	require.True(t, feed.Trigger(context.Background()))
	<-entered
	assert.True(t, feed.InFlight())
	assert.False(t, feed.Trigger(context.Background()))
	_, err := feed.Run(context.Background())
	assert.ErrorIs(t, err, ErrFeedBusy)

	close(release)
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return !feed.InFlight() }, time.Second, 5*time.Millisecond)

	metrics.mu.Lock()
	assert.Equal(t, 2, metrics.dropped)
	metrics.mu.Unlock()

	last, ok := feed.Last()
	require.True(t, ok)
	require.NotNil(t, last.Standings)
	assert.Equal(t, "board", last.Feed)
}

func TestFeed_StopDiscardsInFlightCycle(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	sink := &recordingSink{}
	feed := newBlockingFeed(t, release, entered, sink, nil)

	require.True(t, feed.Trigger(context.Background()))
	<-entered
	feed.Stop()

	assert.Equal(t, 0, sink.count())
	_, ok := feed.Last()
	assert.False(t, ok)
	assert.False(t, feed.Trigger(context.Background()))
}

func TestFeed_RunPublishesDashboard(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	close(release)
	sink := &recordingSink{}
	feed := newBlockingFeed(t, release, make(chan struct{}, 1), sink, nil)

	d, err := feed.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, d.Standings)
	assert.Equal(t, 1, sink.count())
}

func TestFeed_SinksFixedAtConstruction(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{fetch: func(context.Context, ProviderDescriptor) (RawPayload, error) {
		return RawPayload{Body: []byte(`{}`), Status: 200}, nil
	}}
	provider := stubProvider(KindStandings, "sportradar-standings", fetcher, standingsDecoded())

	first, second := &recordingSink{}, &recordingSink{}
	sinks := []Sink{first}
	feed, err := NewFeed(FeedConfig{
		Name:         "board",
		Interval:     time.Minute,
		Orchestrator: newTestOrchestrator(t, provider),
		Sinks:        sinks,
	})
	require.NoError(t, err)
	sinks[0] = second

	_, err = feed.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.count())
	assert.Equal(t, 0, second.count())
}
