package controllers

import (
	"net/http"

	"github.com/Cesium55/food-mobile-sub000/api/responses"
	"github.com/Cesium55/food-mobile-sub000/api/validators"
	"github.com/Cesium55/food-mobile-sub000/internal/strategies"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
)

// ReplaceStepsRequest swaps a strategy's whole schedule.
type ReplaceStepsRequest struct {
	Steps []strategies.StepInput `json:"steps" validate:"required,min=1,dive"`
}

func StrategyCreate(svc strategies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body strategies.CreateStrategyInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func StrategyGet(svc strategies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "strategyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		strategy, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, strategy)
	}
}

func ShopStrategies(svc strategies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := validators.ParseUUIDParam(r, "shopId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByShop(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// StrategyReplaceSteps replaces the schedule. Offers using the strategy pick
// up the new steps on their next pricing.
func StrategyReplaceSteps(svc strategies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "strategyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body ReplaceStepsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.ReplaceSteps(r.Context(), id, body.Steps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
