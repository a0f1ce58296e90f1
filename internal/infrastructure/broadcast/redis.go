package broadcast

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

// RedisClient is the subset of *redis.Client used here.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

type envelope struct {
	Origin    string            `json:"origin"`
	Dashboard usecase.Dashboard `json:"dashboard"`
}

type Config struct {
	Channel string
	// Origin identifies this instance so it can ignore its own messages.
	Origin string
	// TTL bounds the per-feed latest key; zero disables the key.
	TTL    time.Duration
	Logger *logging.Logger
}

// RedisSink publishes each dashboard on a Pub/Sub channel and keeps the latest
// one per feed under <channel>:latest:<feed>.
type RedisSink struct {
	client  RedisClient
	channel string
	origin  string
	ttl     time.Duration
	logger  *logging.Logger
}

func NewRedisSink(client RedisClient, cfg Config) (*RedisSink, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", usecase.ErrInvalidInput)
	}
	if cfg.Channel == "" {
		return nil, fmt.Errorf("%w: redis channel is required", usecase.ErrInvalidInput)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisSink{
		client:  client,
		channel: cfg.Channel,
		origin:  cfg.Origin,
		ttl:     cfg.TTL,
		logger:  logger,
	}, nil
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %w", usecase.ErrDependencyUnavailable, err)
	}
	return client, nil
}

func (s *RedisSink) LatestKey(feed string) string {
	return s.channel + ":latest:" + feed
}

// Publish implements usecase.Sink.
func (s *RedisSink) Publish(ctx context.Context, dashboard usecase.Dashboard) error {
	payload, err := sonic.Marshal(envelope{Origin: s.origin, Dashboard: dashboard})
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Set(ctx, s.LatestKey(dashboard.Feed), payload, s.ttl).Err(); err != nil {
			return fmt.Errorf("%w: store latest dashboard: %w", usecase.ErrDependencyUnavailable, err)
		}
	}
	receivers, err := s.client.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("%w: publish dashboard: %w", usecase.ErrDependencyUnavailable, err)
	}
	s.logger.DebugContext(ctx, "dashboard broadcast", "feed", dashboard.Feed, "cycle_id", dashboard.CycleID, "receivers", receivers)
	return nil
}

// Subscribe relays dashboards published by other instances to sink until ctx
// is done.
func (s *RedisSink) Subscribe(ctx context.Context, sink usecase.Sink) {
	sub := s.client.Subscribe(ctx, s.channel)
	ch := sub.Channel()
	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := s.relay(ctx, msg.Payload, sink); err != nil {
					s.logger.WarnContext(ctx, "relay broadcast failed", "channel", s.channel, "error", err)
				}
			}
		}
	}()
}

func (s *RedisSink) relay(ctx context.Context, payload string, sink usecase.Sink) error {
	var msg envelope
	if err := sonic.UnmarshalString(payload, &msg); err != nil {
		return fmt.Errorf("decode broadcast: %w", err)
	}
	if s.origin != "" && msg.Origin == s.origin {
		return nil
	}
	return sink.Publish(ctx, msg.Dashboard)
}
