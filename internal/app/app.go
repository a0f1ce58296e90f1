package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/hoops-feed/external/upstream"
	"github.com/riskibarqy/hoops-feed/internal/config"
	"github.com/riskibarqy/hoops-feed/internal/domain/team"
	"github.com/riskibarqy/hoops-feed/internal/infrastructure/broadcast"
	"github.com/riskibarqy/hoops-feed/internal/interfaces/httpapi"
	"github.com/riskibarqy/hoops-feed/internal/platform/cache"
	idgen "github.com/riskibarqy/hoops-feed/internal/platform/id"
	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
	"github.com/riskibarqy/hoops-feed/internal/platform/metrics"
	"github.com/riskibarqy/hoops-feed/internal/platform/resilience"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

// App owns every long-lived component of the service.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	server    *http.Server
	scheduler *usecase.Scheduler
	snapshots *usecase.SnapshotService
	stream    *httpapi.StreamHub
	redis     *redis.Client
	relay     *broadcast.RedisSink

	relayCancel context.CancelFunc
}

// New builds the service from cfg. ctx bounds only the startup checks, such as
// the Redis ping.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var (
		recorder    *metrics.Recorder
		appMetrics  usecase.Metrics
		breakerHook resilience.StateListener
		metricsHTTP http.Handler
	)
	if cfg.MetricsEnabled {
		recorder = metrics.New(metrics.WithRuntimeCollectors())
		appMetrics = recorder
		breakerHook = recorder.BreakerStateChanged
		metricsHTTP = recorder.Handler()
	}

	fetcher := upstream.NewClient(upstream.ClientConfig{
		Logger: logger.Named("upstream"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CircuitEnabled,
			FailureThreshold: cfg.CircuitFailureCount,
			OpenTimeout:      cfg.CircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CircuitHalfOpenMaxReq,
			OnStateChange:    breakerHook,
		},
		RetryBackoff: cfg.RetryBackoff,
	})

	plans, err := planFeeds(cfg.Providers, fetcher)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger}
	a.snapshots = usecase.NewSnapshotService(cache.NewStore[usecase.Dashboard](cfg.SnapshotTTL))

	sinks := []usecase.Sink{a.snapshots}
	if cfg.StreamEnabled {
		streamCfg := httpapi.StreamConfig{
			Snapshots:      a.snapshots,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger.Named("stream"),
		}
		if recorder != nil {
			streamCfg.Gauge = recorder
		}
		a.stream = httpapi.NewStreamHub(streamCfg)
		sinks = append(sinks, a.stream)
	}
	if cfg.RedisEnabled {
		if err := a.connectRedis(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, a.relay)
	}

	resolver := team.NewResolver()
	feeds := make([]*usecase.Feed, 0, len(plans))
	for _, plan := range plans {
		feedLogger := logger.Named("feed")
		orchestrator, err := usecase.NewOrchestrator(usecase.OrchestratorConfig{
			Feed:      plan.name,
			Providers: plan.providers,
			Resolver:  resolver,
			Logger:    feedLogger,
			Metrics:   appMetrics,
		})
		if err != nil {
			a.closeRedis()
			return nil, fmt.Errorf("build %s orchestrator: %w", plan.name, err)
		}
		feed, err := usecase.NewFeed(usecase.FeedConfig{
			Name:          plan.name,
			Interval:      feedInterval(cfg, plan.name),
			Orchestrator:  orchestrator,
			Sinks:         sinks,
			ScheduleLimit: cfg.ScheduleLimit,
			LeadersLimit:  cfg.LeadersLimit,
			Logger:        feedLogger,
			Metrics:       appMetrics,
		})
		if err != nil {
			a.closeRedis()
			return nil, fmt.Errorf("build %s feed: %w", plan.name, err)
		}
		feeds = append(feeds, feed)
	}

	a.scheduler, err = usecase.NewScheduler(feeds, logger.Named("scheduler"))
	if err != nil {
		a.closeRedis()
		return nil, err
	}

	handler := httpapi.NewHandler(a.snapshots, a.scheduler, logger.Named("httpapi"))
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:            handler,
		Stream:             a.stream,
		Metrics:            metricsHTTP,
		Logger:             logger,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		ProfilingEnabled:   cfg.PprofEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"feeds", len(feeds),
		"stream", cfg.StreamEnabled,
		"redis", cfg.RedisEnabled,
		"metrics", cfg.MetricsEnabled,
	)
	return a, nil
}

func (a *App) connectRedis(ctx context.Context) error {
	client, err := broadcast.Connect(ctx, a.cfg.RedisURL)
	if err != nil {
		return err
	}
	origin, err := idgen.NewUUIDGenerator().NewID()
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("generate broadcast origin: %w", err)
	}
	sink, err := broadcast.NewRedisSink(client, broadcast.Config{
		Channel: a.cfg.RedisChannel,
		Origin:  origin,
		TTL:     a.cfg.SnapshotTTL,
		Logger:  a.logger.Named("broadcast"),
	})
	if err != nil {
		_ = client.Close()
		return err
	}
	a.redis = client
	a.relay = sink
	return nil
}

func (a *App) closeRedis() {
	if a.redis == nil {
		return
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("close redis", "error", err)
	}
}

func (a *App) Server() *http.Server { return a.server }

func (a *App) Scheduler() *usecase.Scheduler { return a.scheduler }

func (a *App) Snapshots() *usecase.SnapshotService { return a.snapshots }

// Start runs the feed schedule and, with Redis enabled, relays dashboards
// published by other instances into the local snapshot store and stream.
func (a *App) Start() {
	if a.relay != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.relayCancel = cancel

		var local usecase.Sink = a.snapshots
		if a.stream != nil {
			local = usecase.SinkFunc(func(ctx context.Context, d usecase.Dashboard) error {
				if err := a.snapshots.Publish(ctx, d); err != nil {
					return err
				}
				return a.stream.Publish(ctx, d)
			})
		}
		a.relay.Subscribe(ctx, local)
	}
	a.scheduler.Start()
}

// Shutdown stops the HTTP server first so no refresh can start, then the feeds,
// the stream and the Redis relay.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	a.scheduler.Stop(ctx)
	if a.stream != nil {
		a.stream.Close()
	}
	if a.relayCancel != nil {
		a.relayCancel()
	}
	a.closeRedis()
	return firstErr
}
