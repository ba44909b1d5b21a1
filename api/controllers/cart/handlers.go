package cart

import (
	"net/http"

	"github.com/Cesium55/food-mobile-sub000/api/responses"
	"github.com/Cesium55/food-mobile-sub000/api/validators"
	cartsvc "github.com/Cesium55/food-mobile-sub000/internal/cart"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
)

// CartQuote re-prices a device-held cart against authoritative offers.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload QuoteCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), toQuoteInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}
