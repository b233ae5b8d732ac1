// Package cache persists simulation summaries in redis so repeated
// requests for the same slate, seed and trial count skip the trial
// loop.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

// SummaryCache caches per-player simulation summaries keyed by the
// inputs that fully determine them.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Entry
}

// New connects to redis at url. An empty url disables caching; callers
// get a nil cache and nil-safe methods.
func New(url string, ttl time.Duration) (*SummaryCache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		log:    logger.WithComponent("cache"),
	}, nil
}

// Key identifies one simulation run.
func Key(slateID string, seed int64, trials int) string {
	return fmt.Sprintf("simulation:%s:%d:%d", slateID, seed, trials)
}

// Get returns the cached summaries, or nil on miss.
func (c *SummaryCache) Get(ctx context.Context, key string) (map[string]*types.SimSummary, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var summaries map[string]*types.SimSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, fmt.Errorf("decoding cached summaries: %w", err)
	}
	c.log.WithField("key", key).Debug("simulation cache hit")
	return summaries, nil
}

// Set stores summaries under key with the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, key string, summaries map[string]*types.SimSummary) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("encoding summaries: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	c.log.WithField("key", key).WithField("players", len(summaries)).
		Debug("simulation summaries cached")
	return nil
}

// Close releases the redis connection.
func (c *SummaryCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
