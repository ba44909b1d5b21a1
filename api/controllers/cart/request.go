package cart

import (
	"time"

	"github.com/google/uuid"

	cartsvc "github.com/Cesium55/food-mobile-sub000/internal/cart"
)

// QuoteLineRequest is one device-held cart line.
type QuoteLineRequest struct {
	ID                   uuid.UUID `json:"id"`
	OfferID              uuid.UUID `json:"offer_id"`
	ShopID               uuid.UUID `json:"shop_id"`
	Quantity             int       `json:"quantity"`
	ResolvedOriginalCost *string   `json:"resolved_original_cost,omitempty"`
	ResolvedCurrentCost  *string   `json:"resolved_current_cost,omitempty"`
	ExpiresAt            time.Time `json:"expires_at"`
}

// QuoteCartRequest carries the whole cart. Malformed lines come back as
// warnings instead of failing the request.
type QuoteCartRequest struct {
	Items    []QuoteLineRequest `json:"items" validate:"max=200"`
	Selected []uuid.UUID        `json:"selected_item_ids"`
}

func toQuoteInput(payload QuoteCartRequest) cartsvc.QuoteInput {
	items := make([]cartsvc.LineItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, cartsvc.LineItemInput{
			ID:                   item.ID,
			OfferID:              item.OfferID,
			ShopID:               item.ShopID,
			Quantity:             item.Quantity,
			ResolvedOriginalCost: item.ResolvedOriginalCost,
			ResolvedCurrentCost:  item.ResolvedCurrentCost,
			ExpiresAt:            item.ExpiresAt,
		})
	}
	return cartsvc.QuoteInput{Items: items, Selected: payload.Selected}
}
