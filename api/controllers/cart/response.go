package cart

import (
	"time"

	"github.com/google/uuid"

	cartsvc "github.com/Cesium55/food-mobile-sub000/internal/cart"
	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// CartLine is a re-priced line.
type CartLine struct {
	ID           uuid.UUID `json:"id"`
	OfferID      uuid.UUID `json:"offer_id"`
	Quantity     int       `json:"quantity"`
	OriginalCost *string   `json:"original_cost"`
	CurrentCost  *string   `json:"current_cost"`
	LineTotal    string    `json:"line_total"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ShopGroup is one shop's slice of the cart.
type ShopGroup struct {
	ShopID   uuid.UUID  `json:"shop_id"`
	Subtotal string     `json:"subtotal"`
	Items    []CartLine `json:"items"`
}

// Totals mirrors cart.Totals with amounts as strings.
type Totals struct {
	Amount   string `json:"amount"`
	Original string `json:"original"`
	Discount string `json:"discount"`
	Units    int    `json:"units"`
	Lines    int    `json:"lines"`
}

// Warning flags a line for the buyer.
type Warning struct {
	ItemID  uuid.UUID                 `json:"item_id"`
	Type    enums.CartItemWarningType `json:"type"`
	Message string                    `json:"message"`
}

// QuoteResponse is the response body of a cart quote.
type QuoteResponse struct {
	Groups   []ShopGroup `json:"groups"`
	All      Totals      `json:"all"`
	Selected Totals      `json:"selected"`
	Warnings []Warning   `json:"warnings"`
	PricedAt time.Time   `json:"priced_at"`
}

func newQuoteResponse(quote *cartsvc.Quote) QuoteResponse {
	out := QuoteResponse{
		Groups:   make([]ShopGroup, 0, len(quote.Summary.Groups)),
		All:      newTotals(quote.Summary.All),
		Selected: newTotals(quote.Summary.Selected),
		Warnings: make([]Warning, 0, len(quote.Warnings)),
		PricedAt: quote.PricedAt,
	}
	for _, group := range quote.Summary.Groups {
		lines := make([]CartLine, 0, len(group.Items))
		for _, item := range group.Items {
			lines = append(lines, CartLine{
				ID:           item.ID,
				OfferID:      item.OfferID,
				Quantity:     item.Quantity,
				OriginalCost: pricing.FormatAmountPtr(item.OriginalCost),
				CurrentCost:  pricing.FormatAmountPtr(item.CurrentCost),
				LineTotal:    pricing.FormatAmount(item.LineTotal()),
				ExpiresAt:    item.ExpiresAt,
			})
		}
		out.Groups = append(out.Groups, ShopGroup{
			ShopID:   group.ShopID,
			Subtotal: pricing.FormatAmount(group.Subtotal),
			Items:    lines,
		})
	}
	for _, w := range quote.Warnings {
		out.Warnings = append(out.Warnings, Warning{ItemID: w.ItemID, Type: w.Type, Message: w.Message})
	}
	return out
}

func newTotals(t cartsvc.Totals) Totals {
	return Totals{
		Amount:   pricing.FormatAmount(t.Amount),
		Original: pricing.FormatAmount(t.Original),
		Discount: pricing.FormatAmount(t.Discount),
		Units:    t.Units,
		Lines:    t.Lines,
	}
}
