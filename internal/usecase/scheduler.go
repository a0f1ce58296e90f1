package usecase

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

// Scheduler refreshes every feed on its own interval. Cycles run on a worker
// pool with two slots per feed: a feed's gate opens before its worker is back
// in the pool, so the next cycle may need a second worker.
type Scheduler struct {
	cron   *cron.Cron
	pool   *ants.Pool
	feeds  map[string]*Feed
	order  []string
	logger *logging.Logger
}

func NewScheduler(feeds []*Feed, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if len(feeds) == 0 {
		return nil, fmt.Errorf("%w: scheduler needs at least one feed", ErrInvalidInput)
	}

	pool, err := ants.NewPool(2*len(feeds), ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	s := &Scheduler{
		cron:   cron.New(),
		pool:   pool,
		feeds:  make(map[string]*Feed, len(feeds)),
		order:  make([]string, 0, len(feeds)),
		logger: logger,
	}
	for _, feed := range feeds {
		if _, dup := s.feeds[feed.Name()]; dup {
			pool.Release()
			return nil, fmt.Errorf("%w: duplicate feed %s", ErrInvalidInput, feed.Name())
		}
		feed.useExecutor(pool)
		s.feeds[feed.Name()] = feed
		s.order = append(s.order, feed.Name())

		spec := fmt.Sprintf("@every %s", feed.Interval())
		if _, err := s.cron.AddFunc(spec, func() { feed.Trigger(context.Background()) }); err != nil {
			pool.Release()
			return nil, fmt.Errorf("schedule feed %s: %w", feed.Name(), err)
		}
	}
	return s, nil
}

// Start kicks every feed once and then hands control to the cron schedule.
func (s *Scheduler) Start() {
	for _, name := range s.order {
		s.feeds[name].Trigger(context.Background())
	}
	s.cron.Start()
	s.logger.Info("feed scheduler started", "feeds", s.order)
}

// Stop halts the schedule, cancels in-flight cycles and releases the pool.
func (s *Scheduler) Stop(ctx context.Context) {
	cronCtx := s.cron.Stop()
	for _, name := range s.order {
		s.feeds[name].Stop()
	}
	select {
	case <-cronCtx.Done():
	case <-ctx.Done():
	}
	s.pool.Release()
	s.logger.Info("feed scheduler stopped")
}

// Feed looks up a feed by name.
func (s *Scheduler) Feed(name string) (*Feed, bool) {
	feed, ok := s.feeds[name]
	return feed, ok
}

func (s *Scheduler) Feeds() []*Feed {
	out := make([]*Feed, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.feeds[name])
	}
	return out
}

// Refresh triggers a named feed outside its schedule.
func (s *Scheduler) Refresh(ctx context.Context, name string) error {
	feed, ok := s.Feed(name)
	if !ok {
		return fmt.Errorf("%w: feed %s", ErrNotFound, name)
	}
	if !feed.Trigger(ctx) {
		return fmt.Errorf("%w: feed %s", ErrFeedBusy, name)
	}
	return nil
}
