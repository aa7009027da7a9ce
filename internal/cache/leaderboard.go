// Package cache holds leaderboard snapshots in redis so dashboard polling
// between refresh ticks does not recompute the aggregation. The cache is
// optional; a nil client disables it and reads fall through to the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/george-michael9/Abrar-system/internal/scoring"
)

var ErrMiss = errors.New("cache: miss")

type Leaderboard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboard(client *redis.Client, ttl time.Duration) *Leaderboard {
	return &Leaderboard{client: client, ttl: ttl}
}

func (c *Leaderboard) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Leaderboard) Get(ctx context.Context, eventID string) (scoring.Result, error) {
	if !c.Enabled() {
		return scoring.Result{}, ErrMiss
	}
	raw, err := c.client.Get(ctx, key(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return scoring.Result{}, ErrMiss
		}
		return scoring.Result{}, err
	}
	var result scoring.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return scoring.Result{}, ErrMiss
	}
	return result, nil
}

func (c *Leaderboard) Set(ctx context.Context, eventID string, result scoring.Result) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(eventID), raw, c.ttl).Err()
}

func key(eventID string) string {
	return "leaderboard:" + eventID
}
