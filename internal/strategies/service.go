package strategies

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesium55/food-mobile-sub000/internal/repo"
	"github.com/Cesium55/food-mobile-sub000/pkg/db"
	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID) error
}

// Service manages seller-authored pricing strategies.
type Service interface {
	Create(ctx context.Context, input CreateStrategyInput) (*StrategyDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*StrategyDTO, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]StrategyDTO, error)
	ReplaceSteps(ctx context.Context, id uuid.UUID, steps []StepInput) (*StrategyDTO, error)
}

// ServiceParams configure the strategy service. Cache is optional.
type ServiceParams struct {
	Logger *logger.Logger
	Tx     txRunner
	Repo   *Repository
	Cache  cacheInvalidator
}

type service struct {
	logg  *logger.Logger
	tx    txRunner
	repo  *Repository
	cache cacheInvalidator
}

// NewService builds the strategy service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("strategy repository required")
	}
	return &service{
		logg:  params.Logger,
		tx:    params.Tx,
		repo:  params.Repo,
		cache: params.Cache,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateStrategyInput) (*StrategyDTO, error) {
	if input.ShopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	name := strings.TrimSpace(input.Name)
	steps, err := buildSteps(name, input.Steps)
	if err != nil {
		return nil, err
	}

	row := &models.PricingStrategy{ShopID: input.ShopID, Name: name, Steps: steps}
	if _, err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "idx_pricing_strategies_shop_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "strategy name already used by shop").
				WithDetails(map[string]any{"name": name})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pricing strategy")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shop_id":     input.ShopID.String(),
		"strategy_id": row.ID.String(),
		"steps":       len(steps),
	}), "pricing strategy created")
	return s.Get(ctx, row.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StrategyDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.NotFoundOr(err, "pricing strategy")
	}
	return toDTO(row), nil
}

func (s *service) ListByShop(ctx context.Context, shopID uuid.UUID) ([]StrategyDTO, error) {
	rows, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pricing strategies")
	}
	out := make([]StrategyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) ReplaceSteps(ctx context.Context, id uuid.UUID, input []StepInput) (*StrategyDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.NotFoundOr(err, "pricing strategy")
	}
	steps, err := buildSteps(current.Name, input)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceSteps(ctx, id, steps)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace pricing strategy steps")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logg.Warn(s.logg.WithStrategyID(ctx, id.String()), "strategy cache invalidation failed: "+err.Error())
		}
	}
	return s.Get(ctx, id)
}

func buildSteps(name string, input []StepInput) ([]models.PricingStrategyStep, error) {
	candidate := pricing.Strategy{Name: name, Steps: make([]pricing.Step, 0, len(input))}
	for i, step := range input {
		percent, err := pricing.ParseAmount(step.DiscountPercent)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be numeric").
				WithDetails(map[string]any{"step": i})
		}
		candidate.Steps = append(candidate.Steps, pricing.Step{
			TimeRemainingSeconds: step.TimeRemainingSeconds,
			DiscountPercent:      percent,
		})
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	rows := make([]models.PricingStrategyStep, 0, len(candidate.Steps))
	for _, step := range candidate.SortedSteps() {
		rows = append(rows, models.PricingStrategyStep{
			TimeRemainingSeconds: step.TimeRemainingSeconds,
			DiscountPercent:      step.DiscountPercent,
		})
	}
	return rows, nil
}
