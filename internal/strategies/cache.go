package strategies

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

type cacheStore interface {
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	StrategyKey(strategyID string) string
}

const (
	// tombstone marks an invalidated strategy. Backfills never overwrite it,
	// so a reader that loaded the old steps before the write committed cannot
	// repopulate the cache with them.
	tombstone = "invalidated"
	// invalidationFence is how long a tombstone blocks backfills.
	invalidationFence = 30 * time.Second
)

// Cache keeps engine-ready strategies in Redis as JSON.
type Cache struct {
	store cacheStore
	ttl   time.Duration
}

// NewCache returns a strategy cache. A zero ttl stores entries without expiry.
func NewCache(store cacheStore, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

type cachedStrategy struct {
	ID    uuid.UUID    `json:"id"`
	Name  string       `json:"name"`
	Steps []cachedStep `json:"steps"`
}

type cachedStep struct {
	TimeRemainingSeconds int64           `json:"time_remaining_seconds"`
	DiscountPercent      decimal.Decimal `json:"discount_percent"`
}

func toCached(strategy *pricing.Strategy) cachedStrategy {
	steps := make([]cachedStep, len(strategy.Steps))
	for i, step := range strategy.Steps {
		steps[i] = cachedStep{TimeRemainingSeconds: step.TimeRemainingSeconds, DiscountPercent: step.DiscountPercent}
	}
	return cachedStrategy{ID: strategy.ID, Name: strategy.Name, Steps: steps}
}

func (c cachedStrategy) toPricing() *pricing.Strategy {
	steps := make([]pricing.Step, len(c.Steps))
	for i, step := range c.Steps {
		steps[i] = pricing.Step{TimeRemainingSeconds: step.TimeRemainingSeconds, DiscountPercent: step.DiscountPercent}
	}
	return &pricing.Strategy{ID: c.ID, Name: c.Name, Steps: steps}
}

// GetMany returns the cached strategies among ids. Entries that fail to
// decode are treated as misses.
func (c *Cache) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*pricing.Strategy, error) {
	out := make(map[uuid.UUID]*pricing.Strategy, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.store.StrategyKey(id.String())
	}
	raw, err := c.store.GetMany(ctx, keys...)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		payload, ok := raw[keys[i]]
		if !ok || payload == tombstone {
			continue
		}
		var entry cachedStrategy
		if err := json.Unmarshal([]byte(payload), &entry); err != nil || entry.ID != id {
			continue
		}
		out[id] = entry.toPricing()
	}
	return out, nil
}

// Put backfills strategies that are not cached yet. Existing entries and
// tombstones are left alone. Every entry is attempted; failures are combined.
func (c *Cache) Put(ctx context.Context, strategies ...*pricing.Strategy) error {
	var errs error
	for _, strategy := range strategies {
		if strategy == nil {
			continue
		}
		payload, err := json.Marshal(toCached(strategy))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		_, err = c.store.SetNX(ctx, c.store.StrategyKey(strategy.ID.String()), string(payload), c.ttl)
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Invalidate replaces cached strategies with tombstones that expire after
// invalidationFence. Every entry is attempted; failures are combined.
func (c *Cache) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	var errs error
	for _, id := range ids {
		errs = multierr.Append(errs, c.store.Set(ctx, c.store.StrategyKey(id.String()), tombstone, invalidationFence))
	}
	return errs
}
