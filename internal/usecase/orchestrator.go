package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	idgen "github.com/riskibarqy/hoops-feed/internal/platform/id"
	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

var usecaseTracer = otel.Tracer("hoops-feed/internal/usecase")

type OrchestratorConfig struct {
	Feed      string
	Providers []Provider
	Resolver  TeamResolver
	IDs       idgen.Generator
	Logger    *logging.Logger
	Metrics   Metrics
	Now       func() time.Time
}

// Orchestrator runs one aggregation cycle over a fixed provider set.
type Orchestrator struct {
	feed      string
	providers []Provider
	resolver  TeamResolver
	ids       idgen.Generator
	logger    *logging.Logger
	metrics   Metrics
	now       func() time.Time
}

func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("%w: team resolver is required", ErrInvalidInput)
	}
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("%w: feed %s has no providers", ErrInvalidInput, cfg.Feed)
	}
	for _, p := range cfg.Providers {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var metrics Metrics = nopMetrics{}
	if cfg.Metrics != nil {
		metrics = cfg.Metrics
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		feed:      cfg.Feed,
		providers: append([]Provider(nil), cfg.Providers...),
		resolver:  cfg.Resolver,
		ids:       ids,
		logger:    logger,
		metrics:   metrics,
		now:       now,
	}, nil
}

type fetchReply struct {
	payload RawPayload
	err     error
}

type fetchOutcome struct {
	payload RawPayload
	err     error
	elapsed time.Duration
}

// Run fetches every provider concurrently and waits for all of them to settle.
// Provider failures are recorded on the result; the returned error is only set
// when ctx was cancelled, in which case the cycle must be discarded.
func (o *Orchestrator) Run(ctx context.Context) (AggregationResult, error) {
	ctx, span := usecaseTracer.Start(ctx, "usecase.Orchestrator.Run")
	defer span.End()

	startedAt := o.now()
	cycleID, err := o.ids.NewID()
	if err != nil {
		return AggregationResult{}, fmt.Errorf("generate cycle id: %w", err)
	}
	span.SetAttributes(attribute.String("feed", o.feed), attribute.String("cycle_id", cycleID))

	outcomes := make([]fetchOutcome, len(o.providers))
	var wg conc.WaitGroup
	for i, p := range o.providers {
		wg.Go(func() {
			outcomes[i] = o.fetch(ctx, p)
		})
	}
	wg.Wait()

	if crerr.Is(ctx.Err(), context.Canceled) {
		span.SetStatus(codes.Error, "cycle cancelled")
		return AggregationResult{}, ctx.Err()
	}

	builder := NewResultBuilder(cycleID, o.feed, startedAt)
	for i, p := range o.providers {
		o.settle(ctx, builder, p, outcomes[i])
	}

	result := builder.Build(o.now())
	failures := result.Failed()
	o.metrics.ObserveCycle(o.feed, len(failures), result.SettledAt().Sub(startedAt))
	if len(failures) > 0 {
		span.SetStatus(codes.Error, "partial aggregation failure")
	}
	o.logger.InfoContext(ctx, "aggregation cycle settled",
		"feed", o.feed,
		"cycle_id", cycleID,
		"providers", len(o.providers),
		"failures", len(failures),
		"identity_misses", len(result.Misses()),
		"duration", result.SettledAt().Sub(startedAt),
	)
	return result, nil
}

func (o *Orchestrator) fetch(ctx context.Context, p Provider) fetchOutcome {
	desc := p.Descriptor
	callCtx, cancel := context.WithTimeout(ctx, desc.Timeout)
	defer cancel()

	start := time.Now()
	replies := make(chan fetchReply, 1)
	go func() {
		var (
			pc    panics.Catcher
			reply fetchReply
		)
		pc.Try(func() {
			reply.payload, reply.err = p.Fetcher.Fetch(callCtx, desc)
		})
		if recovered := pc.Recovered(); recovered != nil {
			reply = fetchReply{err: &NetworkError{Provider: desc.Name, Cause: recovered.AsError()}}
		}
		replies <- reply
	}()

	// A fetcher that ignores callCtx is abandoned once the deadline passes;
	// its reply lands in the buffered channel and is dropped.
	var reply fetchReply
	select {
	case reply = <-replies:
	case <-callCtx.Done():
		return fetchOutcome{
			err:     &NetworkError{Provider: desc.Name, Timeout: ctx.Err() == nil, Cause: callCtx.Err()},
			elapsed: time.Since(start),
		}
	}

	elapsed := time.Since(start)
	if reply.err != nil {
		timedOut := crerr.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		return fetchOutcome{err: attributeError(desc.Name, reply.err, timedOut), elapsed: elapsed}
	}
	if len(reply.payload.Body) == 0 {
		return fetchOutcome{err: &EmptyPayloadError{Provider: desc.Name}, elapsed: elapsed}
	}
	return fetchOutcome{payload: reply.payload, elapsed: elapsed}
}

// settle decodes and normalizes one provider's outcome into the builder.
func (o *Orchestrator) settle(ctx context.Context, builder *ResultBuilder, p Provider, outcome fetchOutcome) {
	desc := p.Descriptor
	builder.Request(desc.Kind)

	if outcome.err != nil {
		o.fail(ctx, builder, desc, outcome.err, outcome.elapsed)
		return
	}

	decoded, err := p.Decode(outcome.payload)
	if err != nil {
		o.fail(ctx, builder, desc, attributeError(desc.Name, err, false), outcome.elapsed)
		return
	}

	n := newNormalizer(ctx, desc.Name, o.resolver, o.logger, o.metrics)
	switch {
	case decoded.Schedule != nil:
		builder.AddSchedule(n.schedule(*decoded.Schedule)...)
	case decoded.Standings != nil:
		builder.AddStandings(n.standings(*decoded.Standings)...)
	case decoded.Leaders != nil:
		builder.AddLeaders(n.leaders(*decoded.Leaders)...)
	case decoded.LiveScores != nil:
		builder.AddLiveScores(n.liveScores(*decoded.LiveScores)...)
	case decoded.Odds != nil:
		builder.AddOdds(n.odds(*decoded.Odds)...)
	default:
		o.fail(ctx, builder, desc, &DecodeError{Provider: desc.Name, FieldPath: "$", Cause: crerr.New("decoder produced no records")}, outcome.elapsed)
		return
	}
	builder.Miss(n.misses...)
	o.metrics.ObserveFetch(desc.Name, desc.Kind, FetchOutcomeSuccess, outcome.elapsed)
}

func (o *Orchestrator) fail(ctx context.Context, builder *ResultBuilder, desc ProviderDescriptor, err error, elapsed time.Duration) {
	builder.Fail(desc.Name, desc.Kind, err)
	o.metrics.ObserveFetch(desc.Name, desc.Kind, fetchOutcomeLabel(err), elapsed)
	o.logger.WarnContext(ctx, "provider failed",
		"feed", o.feed,
		"provider", desc.Name,
		"kind", string(desc.Kind),
		"error", err,
	)
}

func fetchOutcomeLabel(err error) string {
	var netErr *NetworkError
	if crerr.As(err, &netErr) && netErr.Timeout {
		return FetchOutcomeTimeout
	}
	var decodeErr *DecodeError
	if crerr.As(err, &decodeErr) {
		return FetchOutcomeDecode
	}
	return FetchOutcomeError
}
