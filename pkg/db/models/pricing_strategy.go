package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// PricingStrategy is a seller-authored discount schedule.
type PricingStrategy struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID    uuid.UUID             `gorm:"column:shop_id;type:uuid;not null"`
	Name      string                `gorm:"column:name;not null"`
	Steps     []PricingStrategyStep `gorm:"foreignKey:StrategyID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// PricingStrategyStep is one threshold of a strategy.
type PricingStrategyStep struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StrategyID           uuid.UUID       `gorm:"column:strategy_id;type:uuid;not null"`
	TimeRemainingSeconds int64           `gorm:"column:time_remaining_seconds;not null"`
	DiscountPercent      decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
}

// ToPricing converts the row and its preloaded steps into an engine strategy.
func (s PricingStrategy) ToPricing() *pricing.Strategy {
	steps := make([]pricing.Step, 0, len(s.Steps))
	for _, step := range s.Steps {
		steps = append(steps, pricing.Step{
			TimeRemainingSeconds: step.TimeRemainingSeconds,
			DiscountPercent:      step.DiscountPercent,
		})
	}
	return &pricing.Strategy{ID: s.ID, Name: s.Name, Steps: steps}
}
