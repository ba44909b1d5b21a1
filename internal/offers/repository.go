package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesium55/food-mobile-sub000/internal/repo"
	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	"github.com/Cesium55/food-mobile-sub000/pkg/pagination"
)

// Repository persists offers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads a single offer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.DB(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// FindByIDs loads the offers among ids that exist. Order is unspecified.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Offer, error) {
	if len(ids) == 0 {
		return []models.Offer{}, nil
	}
	var rows []models.Offer
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveByShop returns one page of a shop's offers that have not expired
// at now, soonest expiry first. The returned cursor is empty on the last page.
func (r *Repository) ListActiveByShop(ctx context.Context, shopID uuid.UUID, now time.Time, page pagination.Params) ([]models.Offer, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.DB(ctx).Where("shop_id = ? AND expires_at > ?", shopID, now)
	if cursor != nil {
		qb = qb.Where("(expires_at > ? OR (expires_at = ? AND id > ?))", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.Offer
	err = qb.Order("expires_at ASC").
		Order("id ASC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{At: last.ExpiresAt, ID: last.ID})
	}
	return rows, next, nil
}

// Create inserts a new offer.
func (r *Repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if err := r.DB(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// Update writes every mutable column of offer, including nulls.
func (r *Repository) Update(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	offer.UpdatedAt = time.Now().UTC()
	err := r.DB(ctx).Model(&models.Offer{}).Where("id = ?", offer.ID).Updates(map[string]any{
		"title":                 offer.Title,
		"base_cost":             offer.BaseCost,
		"fixed_discounted_cost": offer.FixedDiscountedCost,
		"pricing_strategy_id":   offer.PricingStrategyID,
		"expires_at":            offer.ExpiresAt,
		"available_quantity":    offer.AvailableQuantity,
		"updated_at":            offer.UpdatedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return offer, nil
}
