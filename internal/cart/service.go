package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// OfferSource loads the authoritative pricing view of offers together with
// the strategies they reference. Unknown ids are absent from the map.
type OfferSource interface {
	Authoritative(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID]pricing.Offer, pricing.Strategies, error)
}

// QuoteInput is a device-held cart plus the lines ticked for checkout.
type QuoteInput struct {
	Items    []LineItemInput
	Selected []uuid.UUID
}

// LineWarning flags a line the buyer should look at before checkout.
type LineWarning struct {
	ItemID  uuid.UUID
	Type    enums.CartItemWarningType
	Message string
}

// Quote is a cart re-priced against authoritative offers.
type Quote struct {
	Items    []LineItem
	Summary  Summary
	Warnings []LineWarning
	PricedAt time.Time
}

// Service prices carts.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
}

// ServiceParams configure the cart service.
type ServiceParams struct {
	Logger              *logger.Logger
	Offers              OfferSource
	Clock               func() time.Time
	ExpiryWarningWindow time.Duration
}

type service struct {
	logg   *logger.Logger
	offers OfferSource
	now    func() time.Time
	window time.Duration
}

// NewService builds the cart quote service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Offers == nil {
		return nil, fmt.Errorf("offer source required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		logg:   params.Logger,
		offers: params.Offers,
		now:    clock,
		window: params.ExpiryWarningWindow,
	}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	now := s.now().UTC()
	quote := &Quote{PricedAt: now}

	items, failures := ParseLineItems(input.Items)
	for _, failure := range failures {
		quote.Warnings = append(quote.Warnings, LineWarning{
			ItemID:  failure.ItemID,
			Type:    enums.CartItemWarningTypeInvalidLine,
			Message: failure.Err.Error(),
		})
		s.logg.Warn(s.logg.WithField(ctx, "item_id", failure.ItemID.String()), "cart line rejected: "+failure.Err.Error())
	}

	offers := map[uuid.UUID]pricing.Offer{}
	var strategies pricing.Strategies
	if ids := offerIDs(items); len(ids) > 0 {
		var err error
		offers, strategies, err = s.offers.Authoritative(ctx, ids)
		if err != nil {
			if pkgerrors.As(err) != nil {
				return nil, err
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offers")
		}
	}

	previous := make(map[uuid.UUID]*string, len(items))
	for _, item := range items {
		previous[item.ID] = pricing.FormatAmountPtr(item.CurrentCost)
	}

	c := New(items...)
	failed := c.RefreshPrices(offers, strategies, now)
	positions := make([]int, 0, len(failed))
	for _, failure := range failed {
		kind := enums.CartItemWarningTypePriceUnavailable
		if pkgerrors.HasCode(failure.Err, pkgerrors.CodeNotFound) {
			kind = enums.CartItemWarningTypeNotAvailable
		}
		quote.Warnings = append(quote.Warnings, LineWarning{ItemID: failure.ItemID, Type: kind, Message: failure.Err.Error()})
		s.logg.Warn(s.logg.WithField(ctx, "item_id", failure.ItemID.String()), "cart line dropped from quote: "+failure.Err.Error())
		positions = append(positions, failure.Index)
	}
	c.RemoveAt(positions...)

	for _, item := range c.Items() {
		offer := offers[item.OfferID]
		switch {
		case !offer.Sellable(now):
			quote.Warnings = append(quote.Warnings, LineWarning{ItemID: item.ID, Type: enums.CartItemWarningTypeNotAvailable, Message: "offer expired or sold out"})
		case item.Quantity > offer.AvailableQuantity:
			quote.Warnings = append(quote.Warnings, LineWarning{
				ItemID:  item.ID,
				Type:    enums.CartItemWarningTypeInsufficientStock,
				Message: fmt.Sprintf("only %d available", offer.AvailableQuantity),
			})
		}
		if item.CurrentCost == nil {
			quote.Warnings = append(quote.Warnings, LineWarning{ItemID: item.ID, Type: enums.CartItemWarningTypePriceUnavailable, Message: "price is being calculated"})
			continue
		}
		if before := previous[item.ID]; before != nil && *before != pricing.FormatAmount(*item.CurrentCost) {
			quote.Warnings = append(quote.Warnings, LineWarning{
				ItemID:  item.ID,
				Type:    enums.CartItemWarningTypePriceChanged,
				Message: fmt.Sprintf("price changed from %s to %s", *before, pricing.FormatAmount(*item.CurrentCost)),
			})
		}
	}

	if s.window > 0 {
		for _, item := range c.ExpiringWithin(now, s.window) {
			if item.ExpiresAt.After(now) {
				quote.Warnings = append(quote.Warnings, LineWarning{ItemID: item.ID, Type: enums.CartItemWarningTypeExpiringSoon, Message: "offer expires soon"})
			}
		}
	}

	quote.Items = c.Items()
	quote.Summary = Summarize(quote.Items, NewSelection(input.Selected...))
	return quote, nil
}

func offerIDs(items []LineItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.OfferID]; ok {
			continue
		}
		seen[item.OfferID] = struct{}{}
		ids = append(ids, item.OfferID)
	}
	return ids
}
