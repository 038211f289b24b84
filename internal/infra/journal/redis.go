package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

// RedisSink appends events to a capped Redis stream.
type RedisSink struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(ctx context.Context, cfg RedisConfig) (*RedisSink, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisSink(rdb, cfg), nil
}

func newRedisSink(rdb *redis.Client, cfg RedisConfig) *RedisSink {
	stream := cfg.Stream
	if stream == "" {
		stream = "employee:mutations"
	}
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisSink{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) Name() string { return "redis" }

// Stream returns the stream key events are appended to.
func (s *RedisSink) Stream() string { return s.stream }

// Record appends ev to the stream.
func (s *RedisSink) Record(ctx context.Context, ev Event) error {
	err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"id":          ev.ID,
			"kind":        string(ev.Kind),
			"employee_id": ev.EmployeeID,
			"name":        ev.Name,
			"at":          ev.At.Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd failed: %w", err)
	}
	return nil
}

// Recent returns up to count of the newest events, newest first.
func (s *RedisSink) Recent(ctx context.Context, count int64) ([]Event, error) {
	msgs, err := s.rdb.XRevRangeN(ctx, s.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange failed: %w", err)
	}

	events := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		ev := Event{
			ID:         asString(m.Values["id"]),
			Kind:       EventKind(asString(m.Values["kind"])),
			EmployeeID: asString(m.Values["employee_id"]),
			Name:       asString(m.Values["name"]),
		}
		if at, err := time.Parse(time.RFC3339Nano, asString(m.Values["at"])); err == nil {
			ev.At = at
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close closes the Redis connection.
func (s *RedisSink) Close() error {
	return s.rdb.Close()
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
