package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// LineItemInput is a cart line as the device stores it, costs still in
// decimal-string form.
type LineItemInput struct {
	ID                   uuid.UUID
	OfferID              uuid.UUID
	ShopID               uuid.UUID
	Quantity             int
	ResolvedOriginalCost *string
	ResolvedCurrentCost  *string
	ExpiresAt            time.Time
}

// LineItem is a parsed cart line. Nil costs count as zero in every total.
type LineItem struct {
	ID           uuid.UUID
	OfferID      uuid.UUID
	ShopID       uuid.UUID
	Quantity     int
	OriginalCost *decimal.Decimal
	CurrentCost  *decimal.Decimal
	ExpiresAt    time.Time
}

// ItemError reports a single line that was left out of a batch.
type ItemError struct {
	Index  int
	ItemID uuid.UUID
	Err    error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("cart item %d (%s): %v", e.Index, e.ItemID, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// LineTotal is the current cost times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return extend(l.CurrentCost, l.Quantity)
}

// LineOriginal is the original cost times quantity.
func (l LineItem) LineOriginal() decimal.Decimal {
	return extend(l.OriginalCost, l.Quantity)
}

// ParseLineItems converts stored lines into LineItems. Malformed lines are
// reported individually and skipped; the rest are returned in input order.
// Every line needs its own id: a missing id or a repeat of an earlier line's
// id is malformed.
func ParseLineItems(inputs []LineItemInput) ([]LineItem, []ItemError) {
	items := make([]LineItem, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	var failures []ItemError
	for i, input := range inputs {
		item, err := parseLineItem(input)
		if err == nil {
			if _, dup := seen[input.ID]; dup {
				err = pkgerrors.New(pkgerrors.CodeValidation, "duplicate line id")
			}
		}
		if err != nil {
			failures = append(failures, ItemError{Index: i, ItemID: input.ID, Err: err})
			continue
		}
		seen[input.ID] = struct{}{}
		items = append(items, item)
	}
	return items, failures
}

func parseLineItem(input LineItemInput) (LineItem, error) {
	if input.ID == uuid.Nil {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}
	if input.Quantity < 1 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	original, err := parseCost(input.ResolvedOriginalCost, "original cost")
	if err != nil {
		return LineItem{}, err
	}
	current, err := parseCost(input.ResolvedCurrentCost, "current cost")
	if err != nil {
		return LineItem{}, err
	}
	if original != nil && current != nil && current.GreaterThan(*original) {
		return LineItem{}, pkgerrors.Wrap(pkgerrors.CodeInvalidOfferData, pricing.ErrInvalidOfferData, "current cost exceeds original cost")
	}
	return LineItem{
		ID:           input.ID,
		OfferID:      input.OfferID,
		ShopID:       input.ShopID,
		Quantity:     input.Quantity,
		OriginalCost: original,
		CurrentCost:  current,
		ExpiresAt:    input.ExpiresAt,
	}, nil
}

func parseCost(raw *string, field string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	amount, err := pricing.ParseAmount(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidOfferData, pricing.ErrInvalidOfferData, field+" is not numeric")
	}
	if amount.IsNegative() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidOfferData, pricing.ErrInvalidOfferData, field+" must not be negative")
	}
	return &amount, nil
}

func extend(unit *decimal.Decimal, qty int) decimal.Decimal {
	if unit == nil || qty <= 0 {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}
