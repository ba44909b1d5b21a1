package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Cesium55/food-mobile-sub000/api/responses"
	"github.com/Cesium55/food-mobile-sub000/api/validators"
	"github.com/Cesium55/food-mobile-sub000/internal/checkout"
	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

// ReconcileLineRequest is one line of an order request. Structural problems
// such as a zero quantity are reported by reconciliation as a batch error.
type ReconcileLineRequest struct {
	OfferID       uuid.UUID `json:"offer_id"`
	Quantity      int       `json:"quantity"`
	ExpectedPrice *string   `json:"expected_price,omitempty"`
}

type ReconcileRequest struct {
	Lines []ReconcileLineRequest `json:"lines"`
}

type ReconciledLine struct {
	OfferID           uuid.UUID             `json:"offer_id"`
	RequestedQuantity int                   `json:"requested_quantity"`
	ProcessedQuantity int                   `json:"processed_quantity"`
	Status            enums.OrderLineStatus `json:"status"`
	AvailableQuantity *int                  `json:"available_quantity,omitempty"`
	PriceAtCommit     *string               `json:"price_at_commit"`
	PriceChanged      bool                  `json:"price_changed"`
	LineTotal         string                `json:"line_total"`
}

type ReconcileResponse struct {
	Outcome      enums.FulfillmentOutcome `json:"outcome"`
	PayableTotal string                   `json:"payable_total"`
	Lines        []ReconciledLine         `json:"lines"`
	ReconciledAt time.Time                `json:"reconciled_at"`
}

// CheckoutReconcile classifies an order request against current stock,
// expiry and prices.
func CheckoutReconcile(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ReconcileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]checkout.RequestedLine, 0, len(body.Lines))
		for _, line := range body.Lines {
			lines = append(lines, checkout.RequestedLine{
				OfferID:       line.OfferID,
				Quantity:      line.Quantity,
				ExpectedPrice: line.ExpectedPrice,
			})
		}

		result, err := svc.Reconcile(r.Context(), lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newReconcileResponse(result))
	}
}

func newReconcileResponse(result *checkout.Reconciliation) ReconcileResponse {
	out := ReconcileResponse{
		Outcome:      result.Outcome,
		PayableTotal: pricing.FormatAmount(result.PayableTotal),
		Lines:        make([]ReconciledLine, 0, len(result.Lines)),
		ReconciledAt: result.ReconciledAt,
	}
	for _, line := range result.Lines {
		out.Lines = append(out.Lines, ReconciledLine{
			OfferID:           line.OfferID,
			RequestedQuantity: line.RequestedQuantity,
			ProcessedQuantity: line.ProcessedQuantity,
			Status:            line.Status,
			AvailableQuantity: line.AvailableQuantity,
			PriceAtCommit:     pricing.FormatAmountPtr(line.PriceAtCommit),
			PriceChanged:      line.PriceChanged,
			LineTotal:         pricing.FormatAmount(line.LineTotal()),
		})
	}
	return out
}
