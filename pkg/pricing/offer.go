package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Offer is the pricing view of a seller listing. Monetary fields keep the
// decimal-string form the offer source delivers them in.
type Offer struct {
	ID                  uuid.UUID
	ShopID              uuid.UUID
	BaseCost            string
	FixedDiscountedCost *string
	PricingStrategyID   *uuid.UUID
	ExpiresAt           time.Time
	AvailableQuantity   int
}

// HasStrategy reports whether the offer is dynamically priced.
func (o Offer) HasStrategy() bool {
	return o.PricingStrategyID != nil && *o.PricingStrategyID != uuid.Nil
}

// HasFixedDiscount reports whether a fixed discounted cost was supplied.
func (o Offer) HasFixedDiscount() bool {
	return o.FixedDiscountedCost != nil && strings.TrimSpace(*o.FixedDiscountedCost) != ""
}

// Expired reports whether now is at or after the offer's expiry.
func (o Offer) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// Sellable reports whether the offer can still be added to a cart or ordered.
func (o Offer) Sellable(now time.Time) bool {
	return !o.Expired(now) && o.AvailableQuantity > 0
}

// TimeRemaining returns the whole seconds left until expiry, never negative.
func (o Offer) TimeRemaining(now time.Time) int64 {
	remaining := o.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}
