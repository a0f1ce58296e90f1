package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_StartTriggersEveryFeed(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	close(release)
	sink := &recordingSink{}
	feed := newBlockingFeed(t, release, make(chan struct{}, 1), sink, nil)

	scheduler, err := NewScheduler([]*Feed{feed}, nil)
	require.NoError(t, err)

	scheduler.Start()
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	scheduler.Stop(ctx)
}

func TestScheduler_Refresh(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	feed := newBlockingFeed(t, release, entered, &recordingSink{}, nil)

	scheduler, err := NewScheduler([]*Feed{feed}, nil)
	require.NoError(t, err)
	defer func() {
		close(release)
		scheduler.Stop(context.Background())
	}()

	assert.ErrorIs(t, scheduler.Refresh(context.Background(), "missing"), ErrNotFound)

	require.NoError(t, scheduler.Refresh(context.Background(), "board"))
	<-entered
	assert.ErrorIs(t, scheduler.Refresh(context.Background(), "board"), ErrFeedBusy)
}

func TestNewScheduler_RejectsDuplicateFeeds(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	close(release)
	feed := newBlockingFeed(t, release, make(chan struct{}, 1), &recordingSink{}, nil)

	_, err := NewScheduler([]*Feed{feed, feed}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestScheduler_TriggerRightAfterCycleCompletes(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	close(release)
	sink := &recordingSink{}
	feed := newBlockingFeed(t, release, make(chan struct{}, 1), sink, nil)

	scheduler, err := NewScheduler([]*Feed{feed}, nil)
	require.NoError(t, err)
	defer scheduler.Stop(context.Background())
	assert.Equal(t, 2, scheduler.pool.Cap())

	for i := 1; i <= 50; i++ {
		require.NoError(t, scheduler.Refresh(context.Background(), "board"), "cycle %d", i)
		require.Eventually(t, func() bool { return !feed.InFlight() }, time.Second, time.Millisecond)
		require.Equal(t, i, sink.count())
	}
}
