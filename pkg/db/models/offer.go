package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// Offer is a time-limited listing of a perishable product by a shop.
type Offer struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID              uuid.UUID           `gorm:"column:shop_id;type:uuid;not null"`
	Title               string              `gorm:"column:title;not null"`
	BaseCost            decimal.Decimal     `gorm:"column:base_cost;type:numeric(12,2);not null"`
	FixedDiscountedCost decimal.NullDecimal `gorm:"column:fixed_discounted_cost;type:numeric(12,2)"`
	PricingStrategyID   *uuid.UUID          `gorm:"column:pricing_strategy_id;type:uuid"`
	ExpiresAt           time.Time           `gorm:"column:expires_at;not null"`
	AvailableQuantity   int                 `gorm:"column:available_quantity;not null;default:0"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ToPricing converts the row into the engine's view of an offer.
func (o Offer) ToPricing() pricing.Offer {
	out := pricing.Offer{
		ID:                o.ID,
		ShopID:            o.ShopID,
		BaseCost:          pricing.FormatAmount(o.BaseCost),
		ExpiresAt:         o.ExpiresAt,
		AvailableQuantity: o.AvailableQuantity,
	}
	if o.FixedDiscountedCost.Valid {
		fixed := pricing.FormatAmount(o.FixedDiscountedCost.Decimal)
		out.FixedDiscountedCost = &fixed
	}
	if o.PricingStrategyID != nil {
		id := *o.PricingStrategyID
		out.PricingStrategyID = &id
	}
	return out
}
