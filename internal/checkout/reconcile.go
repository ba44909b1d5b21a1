package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// RequestedLine is one cart line the buyer is committing to an order.
// ExpectedPrice is the unit price the buyer was shown, when known.
type RequestedLine struct {
	OfferID       uuid.UUID
	Quantity      int
	ExpectedPrice *string
}

// LineViolation describes why a requested line makes the batch malformed.
type LineViolation struct {
	Index   int       `json:"index"`
	OfferID uuid.UUID `json:"offer_id"`
	Reason  string    `json:"reason"`
}

// OrderLineResult is the per-line outcome of reconciliation. Only success
// lines carry a PriceAtCommit and a non-zero ProcessedQuantity.
type OrderLineResult struct {
	OfferID           uuid.UUID
	RequestedQuantity int
	ProcessedQuantity int
	Status            enums.OrderLineStatus
	AvailableQuantity *int
	PriceAtCommit     *decimal.Decimal
	PriceChanged      bool
}

// Charged reports whether the line contributes to the payable total.
func (r OrderLineResult) Charged() bool {
	return r.Status == enums.OrderLineStatusSuccess && r.ProcessedQuantity > 0 && r.PriceAtCommit != nil
}

// LineTotal is the committed price times processed quantity, zero for
// uncharged lines.
func (r OrderLineResult) LineTotal() decimal.Decimal {
	if !r.Charged() {
		return decimal.Zero
	}
	return r.PriceAtCommit.Mul(decimal.NewFromInt(int64(r.ProcessedQuantity)))
}

// ValidateRequest rejects structurally malformed batches: no lines, a
// non-positive quantity, a missing offer id or a repeated offer id.
func ValidateRequest(lines []RequestedLine) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidBatch, "order request contains no lines")
	}
	seen := make(map[uuid.UUID]int, len(lines))
	var violations []LineViolation
	for i, line := range lines {
		switch {
		case line.OfferID == uuid.Nil:
			violations = append(violations, LineViolation{Index: i, OfferID: line.OfferID, Reason: "offer id required"})
		case line.Quantity <= 0:
			violations = append(violations, LineViolation{Index: i, OfferID: line.OfferID, Reason: "quantity must be positive"})
		}
		if line.OfferID == uuid.Nil {
			continue
		}
		if first, ok := seen[line.OfferID]; ok {
			violations = append(violations, LineViolation{
				Index:   i,
				OfferID: line.OfferID,
				Reason:  fmt.Sprintf("duplicate of line %d", first),
			})
			continue
		}
		seen[line.OfferID] = i
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInvalidBatch, fmt.Sprintf("order request has %d invalid line(s)", len(violations))).
		WithDetails(map[string]any{"violations": violations})
}

// Reconcile classifies each requested line against the authoritative offers
// at now. Per-line problems are reported as statuses; only a malformed batch
// returns an error, in which case no line is processed.
func Reconcile(lines []RequestedLine, offers map[uuid.UUID]pricing.Offer, strategies pricing.Strategies, now time.Time) ([]OrderLineResult, error) {
	if err := ValidateRequest(lines); err != nil {
		return nil, err
	}
	results := make([]OrderLineResult, 0, len(lines))
	for _, line := range lines {
		results = append(results, reconcileLine(line, offers, strategies, now))
	}
	return results, nil
}

func reconcileLine(line RequestedLine, offers map[uuid.UUID]pricing.Offer, strategies pricing.Strategies, now time.Time) OrderLineResult {
	result := OrderLineResult{OfferID: line.OfferID, RequestedQuantity: line.Quantity}

	offer, ok := offers[line.OfferID]
	if !ok {
		result.Status = enums.OrderLineStatusNotFound
		return result
	}
	if offer.Expired(now) {
		result.Status = enums.OrderLineStatusExpired
		return result
	}
	if offer.AvailableQuantity < line.Quantity {
		available := offer.AvailableQuantity
		result.Status = enums.OrderLineStatusInsufficientQuantity
		result.AvailableQuantity = &available
		return result
	}

	price, err := pricing.ResolveCurrentPrice(offer, strategies.For(offer), now)
	if err != nil || price.Pending() {
		result.Status = enums.OrderLineStatusPriceUnavailable
		return result
	}

	committed := pricing.RoundAmount(*price.Current)
	result.Status = enums.OrderLineStatusSuccess
	result.ProcessedQuantity = line.Quantity
	result.PriceAtCommit = &committed
	result.PriceChanged = priceChanged(line.ExpectedPrice, committed)
	return result
}

func priceChanged(expected *string, committed decimal.Decimal) bool {
	if expected == nil {
		return false
	}
	seen, err := pricing.ParseAmount(*expected)
	if err != nil {
		return true
	}
	return !pricing.RoundAmount(seen).Equal(committed)
}

// Classify summarises reconciled lines. An empty result set is none_fulfilled.
func Classify(results []OrderLineResult) enums.FulfillmentOutcome {
	if len(results) == 0 {
		return enums.FulfillmentOutcomeNone
	}
	all := true
	some := false
	for _, result := range results {
		if result.Status != enums.OrderLineStatusSuccess || result.ProcessedQuantity != result.RequestedQuantity {
			all = false
		}
		if result.Charged() {
			some = true
		}
	}
	switch {
	case all:
		return enums.FulfillmentOutcomeAll
	case some:
		return enums.FulfillmentOutcomeSome
	default:
		return enums.FulfillmentOutcomeNone
	}
}

// PayableTotal sums charged lines.
func PayableTotal(results []OrderLineResult) decimal.Decimal {
	total := decimal.Zero
	for _, result := range results {
		total = total.Add(result.LineTotal())
	}
	return total
}
