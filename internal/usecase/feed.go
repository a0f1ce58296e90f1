package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
	"github.com/riskibarqy/hoops-feed/internal/platform/resilience"
)

// Sink receives every dashboard a feed assembles.
type Sink interface {
	Publish(ctx context.Context, dashboard Dashboard) error
}

type SinkFunc func(ctx context.Context, dashboard Dashboard) error

func (f SinkFunc) Publish(ctx context.Context, dashboard Dashboard) error {
	return f(ctx, dashboard)
}

// Executor runs submitted cycles; *ants.Pool satisfies it.
type Executor interface {
	Submit(task func()) error
}

type goExecutor struct{}

func (goExecutor) Submit(task func()) error {
	go task()
	return nil
}

type FeedConfig struct {
	Name          string
	Interval      time.Duration
	Orchestrator  *Orchestrator
	Sinks         []Sink
	ScheduleLimit int
	LeadersLimit  int
	Logger        *logging.Logger
	Metrics       Metrics
	Now           func() time.Time
}

// Feed is a named set of providers refreshed as one cycle. At most one cycle
// runs at a time; triggers that arrive while one is in flight are dropped.
type Feed struct {
	name          string
	interval      time.Duration
	orchestrator  *Orchestrator
	sinks         []Sink
	scheduleLimit int
	leadersLimit  int
	logger        *logging.Logger
	metrics       Metrics
	now           func() time.Time

	gate     resilience.Gate
	executor Executor
	base     context.Context
	stop     context.CancelFunc
	stopped  atomic.Bool
	inflight sync.WaitGroup
	last     atomic.Pointer[Dashboard]
}

func NewFeed(cfg FeedConfig) (*Feed, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: feed name is required", ErrInvalidInput)
	}
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("%w: feed %s has no orchestrator", ErrInvalidInput, name)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: feed %s interval must be > 0", ErrInvalidInput, name)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var metrics Metrics = nopMetrics{}
	if cfg.Metrics != nil {
		metrics = cfg.Metrics
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	base, stop := context.WithCancel(context.Background())
	return &Feed{
		name:          name,
		interval:      cfg.Interval,
		orchestrator:  cfg.Orchestrator,
		sinks:         append([]Sink(nil), cfg.Sinks...),
		scheduleLimit: cfg.ScheduleLimit,
		leadersLimit:  cfg.LeadersLimit,
		logger:        logger.With("feed", name),
		metrics:       metrics,
		now:           now,
		executor:      goExecutor{},
		base:          base,
		stop:          stop,
	}, nil
}

func (f *Feed) Name() string            { return f.name }
func (f *Feed) Interval() time.Duration { return f.interval }

// InFlight reports whether a cycle is currently running.
func (f *Feed) InFlight() bool { return f.gate.Held() }

// Last returns the most recently published dashboard.
func (f *Feed) Last() (Dashboard, bool) {
	d := f.last.Load()
	if d == nil {
		return Dashboard{}, false
	}
	return *d, true
}

func (f *Feed) useExecutor(executor Executor) {
	if executor != nil {
		f.executor = executor
	}
}

// Trigger starts a cycle in the background. It returns false when the feed is
// stopped or a cycle is already in flight.
func (f *Feed) Trigger(ctx context.Context) bool {
	if f.stopped.Load() || !f.gate.TryEnter() {
		f.metrics.TriggerDropped(f.name)
		return false
	}

	f.inflight.Add(1)
	cycleCtx := f.cycleContext(ctx)
	if err := f.executor.Submit(func() {
		defer f.inflight.Done()
		defer f.gate.Leave()
		_, _ = f.runCycle(cycleCtx)
	}); err != nil {
		f.inflight.Done()
		f.gate.Leave()
		f.logger.ErrorContext(ctx, "submit feed cycle", "error", err)
		return false
	}
	return true
}

// Run executes one cycle synchronously. It returns ErrFeedBusy when another
// cycle holds the feed and context.Canceled when the cycle was stopped.
func (f *Feed) Run(ctx context.Context) (Dashboard, error) {
	if f.stopped.Load() {
		return Dashboard{}, context.Canceled
	}
	if !f.gate.TryEnter() {
		f.metrics.TriggerDropped(f.name)
		return Dashboard{}, ErrFeedBusy
	}
	f.inflight.Add(1)
	defer f.inflight.Done()
	defer f.gate.Leave()

	return f.runCycle(f.cycleContext(ctx))
}

// Stop cancels the in-flight cycle, if any, and waits for it to unwind.
// A cancelled cycle publishes nothing.
func (f *Feed) Stop() {
	if f.stopped.CompareAndSwap(false, true) {
		f.stop()
	}
	f.inflight.Wait()
}

// cycleContext detaches the cycle from the caller's cancellation but keeps its
// trace so the cycle span nests under the request that triggered it.
func (f *Feed) cycleContext(ctx context.Context) context.Context {
	if ctx == nil {
		return f.base
	}
	return trace.ContextWithSpanContext(f.base, trace.SpanContextFromContext(ctx))
}

func (f *Feed) runCycle(ctx context.Context) (Dashboard, error) {
	result, err := f.orchestrator.Run(ctx)
	if err != nil {
		if crerr.Is(err, context.Canceled) {
			f.logger.DebugContext(ctx, "feed cycle discarded")
			return Dashboard{}, context.Canceled
		}
		f.logger.ErrorContext(ctx, "feed cycle failed", "error", err)
		return Dashboard{}, err
	}
	if ctx.Err() != nil {
		return Dashboard{}, context.Canceled
	}

	dashboard := Assemble(result, AssembleOptions{
		Now:           f.now(),
		ScheduleLimit: f.scheduleLimit,
		LeadersLimit:  f.leadersLimit,
	})
	f.last.Store(&dashboard)

	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, dashboard); err != nil {
			f.logger.WarnContext(ctx, "publish dashboard", "cycle_id", dashboard.CycleID, "error", err)
		}
	}
	return dashboard, nil
}
