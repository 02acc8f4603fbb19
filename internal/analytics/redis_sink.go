package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Publisher is the part of a redis client the sink needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes events as JSON on a redis channel
type RedisSink struct {
	client  Publisher
	channel string
	timeout time.Duration
}

func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel, timeout: 2 * time.Second}
}

func (s *RedisSink) Send(evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
