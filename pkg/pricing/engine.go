// Package pricing computes the current price of perishable offers.
//
// Every function here is pure: the evaluation instant is always passed in
// and nothing reads the wall clock, so client displays, cart snapshots and
// checkout all derive the same number for the same instant.
package pricing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
)

// ErrInvalidOfferData marks offers whose monetary fields cannot be priced.
var ErrInvalidOfferData = errors.New("invalid offer data")

// Price is the outcome of pricing one offer at one instant.
type Price struct {
	Base decimal.Decimal
	// Current is nil while the offer's strategy has not been loaded.
	Current *decimal.Decimal
	Source  enums.PriceSource
	// Step is the strategy step in force, if any.
	Step *Step
}

// Pending reports whether the price awaits its strategy.
func (p Price) Pending() bool {
	return p.Current == nil
}

// Display returns the amount to show a buyer. A pending price falls back to
// the base cost; it must never be charged.
func (p Price) Display() decimal.Decimal {
	if p.Current == nil {
		return p.Base
	}
	return *p.Current
}

// DiscountPercent is the whole-percent discount of Current against Base.
func (p Price) DiscountPercent() int {
	return DiscountPercent(p.Base, p.Current)
}

// ResolveCurrentPrice prices offer at now.
//
// strategy must be the strategy the offer references, or nil when it is not
// loaded yet, in which case the returned price is pending. Offers without a
// strategy use their fixed discounted cost, else the base cost, unchanged.
// Costs with sub-cent digits are invalid offer data.
func ResolveCurrentPrice(offer Offer, strategy *Strategy, now time.Time) (Price, error) {
	base, err := parseBaseCost(offer)
	if err != nil {
		return Price{}, err
	}

	if !offer.HasStrategy() {
		if !offer.HasFixedDiscount() {
			current := base
			return Price{Base: base, Current: &current, Source: enums.PriceSourceBase}, nil
		}
		fixed, err := parseFixedCost(offer, base)
		if err != nil {
			return Price{}, err
		}
		return Price{Base: base, Current: &fixed, Source: enums.PriceSourceFixed}, nil
	}

	if strategy == nil {
		return Price{Base: base, Source: enums.PriceSourcePending}, nil
	}
	if strategy.ID != uuid.Nil && strategy.ID != *offer.PricingStrategyID {
		return Price{}, invalidOffer(offer, "strategy does not match the offer's strategy reference")
	}

	price := Price{Base: base, Source: enums.PriceSourceStrategy}
	percent := decimal.Zero
	if step, ok := strategy.StepAt(offer.TimeRemaining(now)); ok {
		selected := step
		price.Step = &selected
		percent = clampPercent(step.DiscountPercent)
	}
	current := ApplyDiscount(base, percent)
	price.Current = &current
	return price, nil
}

// ApplyDiscount returns base reduced by percent, rounded to cents.
func ApplyDiscount(base, percent decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(clampPercent(percent))
	return RoundAmount(base.Mul(factor).Div(hundred))
}

// DiscountPercent returns round(((base-current)/base)*100) clamped to [0,100].
// A nil current or non-positive base yields 0.
func DiscountPercent(base decimal.Decimal, current *decimal.Decimal) int {
	if current == nil || !base.IsPositive() {
		return 0
	}
	ratio := base.Sub(*current).Div(base).Mul(hundred).Round(0)
	pct := ratio.IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// ResolveDiscountPercent is DiscountPercent over decimal strings.
func ResolveDiscountPercent(baseCost string, currentPrice *string) (int, error) {
	base, err := ParseAmount(baseCost)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInvalidOfferData, ErrInvalidOfferData, "base cost is not numeric")
	}
	if currentPrice == nil {
		return 0, nil
	}
	current, err := ParseAmount(*currentPrice)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInvalidOfferData, ErrInvalidOfferData, "current price is not numeric")
	}
	return DiscountPercent(base, &current), nil
}

func parseBaseCost(offer Offer) (decimal.Decimal, error) {
	base, err := ParseAmount(offer.BaseCost)
	if err != nil {
		return decimal.Zero, invalidOffer(offer, "base cost is missing or not numeric")
	}
	if !base.IsPositive() {
		return decimal.Zero, invalidOffer(offer, "base cost must be positive")
	}
	if !WholeCents(base) {
		return decimal.Zero, invalidOffer(offer, "base cost has more than two fraction digits")
	}
	return base, nil
}

func parseFixedCost(offer Offer, base decimal.Decimal) (decimal.Decimal, error) {
	fixed, err := ParseAmount(*offer.FixedDiscountedCost)
	if err != nil {
		return decimal.Zero, invalidOffer(offer, "discounted cost is not numeric")
	}
	if fixed.IsNegative() {
		return decimal.Zero, invalidOffer(offer, "discounted cost must not be negative")
	}
	if !WholeCents(fixed) {
		return decimal.Zero, invalidOffer(offer, "discounted cost has more than two fraction digits")
	}
	if fixed.GreaterThan(base) {
		return decimal.Zero, invalidOffer(offer, "discounted cost exceeds base cost")
	}
	return fixed, nil
}

func clampPercent(percent decimal.Decimal) decimal.Decimal {
	if percent.IsNegative() {
		return decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		return hundred
	}
	return percent
}

func invalidOffer(offer Offer, message string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInvalidOfferData, ErrInvalidOfferData, message).
		WithDetails(map[string]any{"offer_id": offer.ID})
}
