package strategies

import (
	"time"

	"github.com/google/uuid"

	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// StepInput is one seller-authored step with the percent as a decimal string.
type StepInput struct {
	TimeRemainingSeconds int64  `json:"time_remaining_seconds" validate:"gte=0"`
	DiscountPercent      string `json:"discount_percent" validate:"required,numeric"`
}

// CreateStrategyInput describes a new discount schedule.
type CreateStrategyInput struct {
	ShopID uuid.UUID   `json:"shop_id" validate:"required"`
	Name   string      `json:"name" validate:"required,max=120"`
	Steps  []StepInput `json:"steps" validate:"required,min=1,dive"`
}

// StepDTO is the API shape of a step, thresholds descending.
type StepDTO struct {
	TimeRemainingSeconds int64  `json:"time_remaining_seconds"`
	DiscountPercent      string `json:"discount_percent"`
}

// StrategyDTO is the API shape of a strategy.
type StrategyDTO struct {
	ID        uuid.UUID `json:"id"`
	ShopID    uuid.UUID `json:"shop_id"`
	Name      string    `json:"name"`
	Steps     []StepDTO `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(row *models.PricingStrategy) *StrategyDTO {
	steps := make([]StepDTO, len(row.Steps))
	for i, step := range row.Steps {
		steps[i] = StepDTO{
			TimeRemainingSeconds: step.TimeRemainingSeconds,
			DiscountPercent:      step.DiscountPercent.StringFixed(pricing.AmountScale),
		}
	}
	return &StrategyDTO{
		ID:        row.ID,
		ShopID:    row.ShopID,
		Name:      row.Name,
		Steps:     steps,
		CreatedAt: row.CreatedAt,
	}
}
