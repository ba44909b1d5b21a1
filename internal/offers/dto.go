package offers

import (
	"time"

	"github.com/google/uuid"

	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// CreateOfferInput is the payload a seller submits to list an offer.
type CreateOfferInput struct {
	ShopID              uuid.UUID  `json:"shop_id" validate:"required"`
	Title               string     `json:"title" validate:"required,max=200"`
	BaseCost            string     `json:"base_cost" validate:"required,numeric"`
	FixedDiscountedCost *string    `json:"fixed_discounted_cost,omitempty" validate:"omitempty,numeric"`
	PricingStrategyID   *uuid.UUID `json:"pricing_strategy_id,omitempty"`
	ExpiresAt           time.Time  `json:"expires_at" validate:"required"`
	AvailableQuantity   int        `json:"available_quantity" validate:"gte=0"`
}

// UpdateOfferInput holds optional changes. An empty FixedDiscountedCost
// clears the fixed price; ClearStrategy detaches the strategy.
type UpdateOfferInput struct {
	Title               *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	BaseCost            *string    `json:"base_cost,omitempty" validate:"omitempty,numeric"`
	FixedDiscountedCost *string    `json:"fixed_discounted_cost,omitempty"`
	PricingStrategyID   *uuid.UUID `json:"pricing_strategy_id,omitempty"`
	ClearStrategy       bool       `json:"clear_strategy,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	AvailableQuantity   *int       `json:"available_quantity,omitempty" validate:"omitempty,gte=0"`
}

// PriceQuote is an offer's price at PricedAt.
type PriceQuote struct {
	OfferID              uuid.UUID         `json:"offer_id"`
	BaseCost             string            `json:"base_cost"`
	CurrentCost          *string           `json:"current_cost"`
	DisplayCost          string            `json:"display_cost"`
	DiscountPercent      int               `json:"discount_percent"`
	Source               enums.PriceSource `json:"source"`
	Pending              bool              `json:"pending"`
	StepThresholdSeconds *int64            `json:"step_threshold_seconds,omitempty"`
	TimeRemainingSeconds int64             `json:"time_remaining_seconds"`
	Sellable             bool              `json:"sellable"`
	PricedAt             time.Time         `json:"priced_at"`
}

// OfferDTO is the API shape of an offer. Price is nil when the offer could
// not be priced; PricingError then carries the reason.
type OfferDTO struct {
	ID                  uuid.UUID   `json:"id"`
	ShopID              uuid.UUID   `json:"shop_id"`
	Title               string      `json:"title"`
	BaseCost            string      `json:"base_cost"`
	FixedDiscountedCost *string     `json:"fixed_discounted_cost"`
	PricingStrategyID   *uuid.UUID  `json:"pricing_strategy_id"`
	ExpiresAt           time.Time   `json:"expires_at"`
	AvailableQuantity   int         `json:"available_quantity"`
	Price               *PriceQuote `json:"price"`
	PricingError        string      `json:"pricing_error,omitempty"`
}

// OfferPage is one page of a shop listing.
type OfferPage struct {
	Offers     []OfferDTO `json:"offers"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func newPriceQuote(offer pricing.Offer, price pricing.Price, now time.Time) *PriceQuote {
	quote := &PriceQuote{
		OfferID:              offer.ID,
		BaseCost:             pricing.FormatAmount(price.Base),
		CurrentCost:          pricing.FormatAmountPtr(price.Current),
		DisplayCost:          pricing.FormatAmount(price.Display()),
		DiscountPercent:      price.DiscountPercent(),
		Source:               price.Source,
		Pending:              price.Pending(),
		TimeRemainingSeconds: offer.TimeRemaining(now),
		Sellable:             offer.Sellable(now),
		PricedAt:             now,
	}
	if price.Step != nil {
		threshold := price.Step.TimeRemainingSeconds
		quote.StepThresholdSeconds = &threshold
	}
	return quote
}

func toDTO(row *models.Offer) *OfferDTO {
	view := row.ToPricing()
	return &OfferDTO{
		ID:                  row.ID,
		ShopID:              row.ShopID,
		Title:               row.Title,
		BaseCost:            view.BaseCost,
		FixedDiscountedCost: view.FixedDiscountedCost,
		PricingStrategyID:   view.PricingStrategyID,
		ExpiresAt:           row.ExpiresAt,
		AvailableQuantity:   row.AvailableQuantity,
	}
}
