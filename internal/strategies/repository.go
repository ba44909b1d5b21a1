package strategies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesium55/food-mobile-sub000/internal/repo"
	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
)

// Repository persists pricing strategies and their steps.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Order("time_remaining_seconds DESC")
}

// FindByID loads a strategy with its steps.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PricingStrategy, error) {
	var strategy models.PricingStrategy
	if err := r.DB(ctx).Preload("Steps", orderedSteps).First(&strategy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &strategy, nil
}

// FindByIDs loads every strategy in ids that exists. Order is unspecified.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.PricingStrategy, error) {
	if len(ids) == 0 {
		return []models.PricingStrategy{}, nil
	}
	var rows []models.PricingStrategy
	if err := r.DB(ctx).Preload("Steps", orderedSteps).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByShop returns a shop's strategies ordered by name.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.PricingStrategy, error) {
	var rows []models.PricingStrategy
	if err := r.DB(ctx).Preload("Steps", orderedSteps).Where("shop_id = ?", shopID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the strategy and its steps.
func (r *Repository) Create(ctx context.Context, strategy *models.PricingStrategy) (*models.PricingStrategy, error) {
	if strategy.ID == uuid.Nil {
		strategy.ID = uuid.New()
	}
	for i := range strategy.Steps {
		if strategy.Steps[i].ID == uuid.Nil {
			strategy.Steps[i].ID = uuid.New()
		}
		strategy.Steps[i].StrategyID = strategy.ID
	}
	if err := r.DB(ctx).Create(strategy).Error; err != nil {
		return nil, err
	}
	return strategy, nil
}

// ReplaceSteps swaps a strategy's steps for steps.
func (r *Repository) ReplaceSteps(ctx context.Context, strategyID uuid.UUID, steps []models.PricingStrategyStep) error {
	tx := r.DB(ctx)
	if err := tx.Where("strategy_id = ?", strategyID).Delete(&models.PricingStrategyStep{}).Error; err != nil {
		return err
	}
	if len(steps) == 0 {
		return nil
	}
	for i := range steps {
		if steps[i].ID == uuid.Nil {
			steps[i].ID = uuid.New()
		}
		steps[i].StrategyID = strategyID
	}
	return tx.Create(&steps).Error
}
