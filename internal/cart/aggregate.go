package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Selection is the set of line ids a buyer ticked for checkout.
type Selection map[uuid.UUID]struct{}

// NewSelection builds a Selection from line ids.
func NewSelection(ids ...uuid.UUID) Selection {
	sel := make(Selection, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	return sel
}

// Has reports whether the line is selected.
func (s Selection) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// ShopGroup holds one shop's lines and their current-cost subtotal.
type ShopGroup struct {
	ShopID   uuid.UUID
	Items    []LineItem
	Subtotal decimal.Decimal
}

// Totals aggregates a set of lines.
type Totals struct {
	Amount   decimal.Decimal
	Original decimal.Decimal
	Discount decimal.Decimal
	Units    int
	Lines    int
}

// Summary carries the whole-cart and selected-only roll-ups.
type Summary struct {
	Groups   []ShopGroup
	All      Totals
	Selected Totals
}

// GroupByShop groups lines by shop, shops ordered by first appearance.
func GroupByShop(items []LineItem) []ShopGroup {
	groups := make([]ShopGroup, 0)
	index := make(map[uuid.UUID]int)
	for _, item := range items {
		pos, ok := index[item.ShopID]
		if !ok {
			pos = len(groups)
			index[item.ShopID] = pos
			groups = append(groups, ShopGroup{ShopID: item.ShopID, Subtotal: decimal.Zero})
		}
		groups[pos].Items = append(groups[pos].Items, item)
		groups[pos].Subtotal = groups[pos].Subtotal.Add(item.LineTotal())
	}
	return groups
}

// TotalAmount sums current cost times quantity over every line.
func TotalAmount(items []LineItem) decimal.Decimal {
	return sum(items, everything, LineItem.LineTotal)
}

// TotalAmountSelected sums current cost times quantity over selected lines.
func TotalAmountSelected(items []LineItem, sel Selection) decimal.Decimal {
	return sum(items, sel.Has, LineItem.LineTotal)
}

// TotalOriginal sums original cost times quantity over every line.
func TotalOriginal(items []LineItem) decimal.Decimal {
	return sum(items, everything, LineItem.LineOriginal)
}

// TotalOriginalSelected sums original cost times quantity over selected lines.
func TotalOriginalSelected(items []LineItem, sel Selection) decimal.Decimal {
	return sum(items, sel.Has, LineItem.LineOriginal)
}

// TotalDiscount is TotalOriginal minus TotalAmount, never negative.
func TotalDiscount(items []LineItem) decimal.Decimal {
	return nonNegative(TotalOriginal(items).Sub(TotalAmount(items)))
}

// TotalDiscountSelected is the selected-only discount, never negative.
func TotalDiscountSelected(items []LineItem, sel Selection) decimal.Decimal {
	return nonNegative(TotalOriginalSelected(items, sel).Sub(TotalAmountSelected(items, sel)))
}

// SelectedItemCount counts units, not lines, across selected lines.
func SelectedItemCount(items []LineItem, sel Selection) int {
	count := 0
	for _, item := range items {
		if sel.Has(item.ID) {
			count += item.Quantity
		}
	}
	return count
}

// Summarize computes groups plus all and selected totals in one pass per view.
func Summarize(items []LineItem, sel Selection) Summary {
	return Summary{
		Groups:   GroupByShop(items),
		All:      totalsWhere(items, everything),
		Selected: totalsWhere(items, sel.Has),
	}
}

func totalsWhere(items []LineItem, keep func(uuid.UUID) bool) Totals {
	totals := Totals{Amount: decimal.Zero, Original: decimal.Zero}
	for _, item := range items {
		if !keep(item.ID) {
			continue
		}
		totals.Amount = totals.Amount.Add(item.LineTotal())
		totals.Original = totals.Original.Add(item.LineOriginal())
		totals.Units += item.Quantity
		totals.Lines++
	}
	totals.Discount = nonNegative(totals.Original.Sub(totals.Amount))
	return totals
}

func sum(items []LineItem, keep func(uuid.UUID) bool, value func(LineItem) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if keep(item.ID) {
			total = total.Add(value(item))
		}
	}
	return total
}

func everything(uuid.UUID) bool { return true }

func nonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
