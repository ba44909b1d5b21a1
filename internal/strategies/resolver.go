package strategies

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

type strategyLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.PricingStrategy, error)
}

type strategyCache interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*pricing.Strategy, error)
	Put(ctx context.Context, strategies ...*pricing.Strategy) error
}

// ResolverParams configure the strategy resolver. Cache and Metrics are
// optional.
type ResolverParams struct {
	Logger  *logger.Logger
	Repo    strategyLoader
	Cache   strategyCache
	Metrics *metrics.PricingMetrics
}

// Resolver loads engine-ready strategies, cache first.
type Resolver struct {
	logg    *logger.Logger
	repo    strategyLoader
	cache   strategyCache
	metrics *metrics.PricingMetrics
}

// NewResolver builds a Resolver.
func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("strategy repository required")
	}
	return &Resolver{
		logg:    params.Logger,
		repo:    params.Repo,
		cache:   params.Cache,
		metrics: params.Metrics,
	}, nil
}

// ResolveMany returns the strategies among ids that exist. Ids that cannot be
// resolved are absent, so offers referencing them price as pending. Cache
// failures are logged and fall through to the database.
func (r *Resolver) ResolveMany(ctx context.Context, ids []uuid.UUID) (pricing.Strategies, error) {
	ids = uniqueIDs(ids)
	out := make(pricing.Strategies, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	missing := ids
	if r.cache != nil {
		cached, err := r.cache.GetMany(ctx, ids)
		if err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "strategy cache read failed")
		}
		missing = missing[:0:0]
		for _, id := range ids {
			if strategy, ok := cached[id]; ok {
				out[id] = strategy
				continue
			}
			missing = append(missing, id)
		}
		r.metrics.IncCacheHit(len(out))
		r.metrics.IncCacheMiss(len(missing))
	}
	if len(missing) == 0 {
		return out, nil
	}

	rows, err := r.repo.FindByIDs(ctx, missing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing strategies")
	}
	loaded := make([]*pricing.Strategy, 0, len(rows))
	for _, row := range rows {
		strategy := row.ToPricing()
		out[strategy.ID] = strategy
		loaded = append(loaded, strategy)
	}

	if r.cache != nil && len(loaded) > 0 {
		if err := r.cache.Put(ctx, loaded...); err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "strategy cache backfill failed")
		}
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
