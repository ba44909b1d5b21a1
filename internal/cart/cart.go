package cart

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// Cart is a caller-owned, in-memory collection of lines. It is not safe for
// concurrent use.
type Cart struct {
	items []LineItem
	newID func() uuid.UUID
}

// New returns a cart seeded with items.
func New(items ...LineItem) *Cart {
	c := &Cart{newID: uuid.New}
	c.items = append(c.items, items...)
	return c
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Add puts qty units of offer into the cart, merging with an existing line
// for the same offer. The price snapshot is taken from price.
func (c *Cart) Add(offer pricing.Offer, price pricing.Price, qty int, now time.Time) (LineItem, error) {
	if qty < 1 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if !offer.Sellable(now) {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer available").
			WithDetails(map[string]any{"offer_id": offer.ID})
	}

	pos := c.indexByOffer(offer.ID)
	total := qty
	if pos >= 0 {
		total += c.items[pos].Quantity
	}
	if total > offer.AvailableQuantity {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"offer_id": offer.ID, "available_quantity": offer.AvailableQuantity})
	}

	if pos < 0 {
		c.items = append(c.items, LineItem{ID: c.newID(), OfferID: offer.ID, ShopID: offer.ShopID})
		pos = len(c.items) - 1
	}
	line := &c.items[pos]
	line.Quantity = total
	snapshot(line, offer, price)
	return *line, nil
}

// Increment adds one unit to a line, bounded by available stock.
func (c *Cart) Increment(lineID uuid.UUID, available int) (LineItem, error) {
	pos := c.indexByID(lineID)
	if pos < 0 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if c.items[pos].Quantity+1 > available {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"offer_id": c.items[pos].OfferID, "available_quantity": available})
	}
	c.items[pos].Quantity++
	return c.items[pos], nil
}

// Decrement removes one unit from a line. A line that reaches zero is
// removed and removed is true.
func (c *Cart) Decrement(lineID uuid.UUID) (line LineItem, removed bool, err error) {
	pos := c.indexByID(lineID)
	if pos < 0 {
		return LineItem{}, false, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	c.items[pos].Quantity--
	line = c.items[pos]
	if line.Quantity <= 0 {
		c.removeAt(pos)
		return line, true, nil
	}
	return line, false, nil
}

// Remove deletes a line and reports whether it existed.
func (c *Cart) Remove(lineID uuid.UUID) bool {
	pos := c.indexByID(lineID)
	if pos < 0 {
		return false
	}
	c.removeAt(pos)
	return true
}

// RemoveAt deletes the lines at the given positions, as reported by
// ItemError.Index from RefreshPrices. Unknown and repeated positions are
// ignored.
func (c *Cart) RemoveAt(positions ...int) int {
	drop := make(map[int]struct{}, len(positions))
	for _, pos := range positions {
		if pos >= 0 && pos < len(c.items) {
			drop[pos] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := make([]LineItem, 0, len(c.items)-len(drop))
	for i, item := range c.items {
		if _, ok := drop[i]; !ok {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return len(drop)
}

// Take moves the given lines out of the cart, as when they are reserved by
// a pending order. Unknown ids are ignored.
func (c *Cart) Take(lineIDs ...uuid.UUID) []LineItem {
	sel := NewSelection(lineIDs...)
	taken := make([]LineItem, 0, len(lineIDs))
	kept := c.items[:0]
	for _, item := range c.items {
		if sel.Has(item.ID) {
			taken = append(taken, item)
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	return taken
}

// Restore returns lines from a cancelled order. Quantities merge into an
// existing line for the same offer.
func (c *Cart) Restore(lines ...LineItem) {
	for _, line := range lines {
		if pos := c.indexByOffer(line.OfferID); pos >= 0 {
			c.items[pos].Quantity += line.Quantity
			continue
		}
		c.items = append(c.items, line)
	}
}

// RefreshPrices re-snapshots every line against authoritative offers at now.
// Lines whose offer is missing or cannot be priced keep their previous
// snapshot and are reported with their position in the cart.
func (c *Cart) RefreshPrices(offers map[uuid.UUID]pricing.Offer, strategies pricing.Strategies, now time.Time) []ItemError {
	var failures []ItemError
	for i := range c.items {
		line := &c.items[i]
		offer, ok := offers[line.OfferID]
		if !ok {
			failures = append(failures, ItemError{
				Index:  i,
				ItemID: line.ID,
				Err:    pkgerrors.New(pkgerrors.CodeNotFound, "offer not found"),
			})
			continue
		}
		price, err := pricing.ResolveCurrentPrice(offer, strategies.For(offer), now)
		if err != nil {
			failures = append(failures, ItemError{Index: i, ItemID: line.ID, Err: err})
			continue
		}
		snapshot(line, offer, price)
	}
	return failures
}

// ExpiringWithin returns lines whose offer expires within window of now,
// including already expired ones.
func (c *Cart) ExpiringWithin(now time.Time, window time.Duration) []LineItem {
	cutoff := now.Add(window)
	var out []LineItem
	for _, item := range c.items {
		if item.ExpiresAt.IsZero() {
			continue
		}
		if !item.ExpiresAt.After(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

func snapshot(line *LineItem, offer pricing.Offer, price pricing.Price) {
	base := pricing.RoundAmount(price.Base)
	line.OriginalCost = &base
	line.CurrentCost = nil
	if price.Current != nil {
		current := *price.Current
		line.CurrentCost = &current
	}
	line.ShopID = offer.ShopID
	line.ExpiresAt = offer.ExpiresAt
}

func (c *Cart) indexByID(id uuid.UUID) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) indexByOffer(offerID uuid.UUID) int {
	for i, item := range c.items {
		if item.OfferID == offerID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(pos int) {
	c.items = append(c.items[:pos], c.items[pos+1:]...)
}
