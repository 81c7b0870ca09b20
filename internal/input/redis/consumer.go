package redis

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"sentinelsoc/internal/logger"
	"sentinelsoc/pkg/models"
)

// Config configures the Redis event source.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	MaxDrain int
}

// Consumer drains generic events from a Redis list. The upstream log
// forwarder pushes one JSON event per list element.
type Consumer struct {
	client   *redis.Client
	key      string
	maxDrain int
}

// NewConsumer creates a Redis consumer for list-based event queues.
func NewConsumer(cfg Config) (*Consumer, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}
	if cfg.MaxDrain <= 0 {
		cfg.MaxDrain = 10000
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Consumer{
		client:   client,
		key:      cfg.Key,
		maxDrain: cfg.MaxDrain,
	}, nil
}

// Drain pops queued events until the list is empty or the drain cap is hit.
// Malformed elements are skipped and counted.
func (c *Consumer) Drain(ctx context.Context) ([]models.GenericEvent, int, error) {
	var events []models.GenericEvent
	skipped := 0

	for len(events)+skipped < c.maxDrain {
		raw, err := c.client.LPop(ctx, c.key).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return events, skipped, fmt.Errorf("pop redis event: %w", err)
		}

		var event models.GenericEvent
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			logger.Warnf("Skipping malformed redis event: %v", err)
			skipped++
			continue
		}
		events = append(events, event)
	}

	return events, skipped, nil
}

// Close closes the consumer.
func (c *Consumer) Close() error {
	return c.client.Close()
}
