package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cesium55/food-mobile-sub000/api/controllers"
	cartcontrollers "github.com/Cesium55/food-mobile-sub000/api/controllers/cart"
	"github.com/Cesium55/food-mobile-sub000/api/middleware"
	"github.com/Cesium55/food-mobile-sub000/internal/cart"
	"github.com/Cesium55/food-mobile-sub000/internal/checkout"
	"github.com/Cesium55/food-mobile-sub000/internal/offers"
	"github.com/Cesium55/food-mobile-sub000/internal/strategies"
	"github.com/Cesium55/food-mobile-sub000/pkg/config"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
)

// Services bundles the domain services the API exposes.
type Services struct {
	Offers     offers.Service
	Strategies strategies.Service
	Cart       cart.Service
	Checkout   checkout.Service
}

// Deps are infrastructure handles used by probes and scraping. Metrics may
// be nil to disable /metrics.
type Deps struct {
	DB      controllers.Pinger
	Redis   controllers.Pinger
	Metrics http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	readiness := map[string]controllers.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/offers", func(r chi.Router) {
			r.Post("/", controllers.OfferCreate(svc.Offers, logg))
			r.Get("/{offerId}/price", controllers.OfferPrice(svc.Offers, logg))
			r.Patch("/{offerId}", controllers.OfferUpdate(svc.Offers, logg))
		})

		r.Route("/shops/{shopId}", func(r chi.Router) {
			r.Get("/offers", controllers.ShopOffers(svc.Offers, logg))
			r.Get("/strategies", controllers.ShopStrategies(svc.Strategies, logg))
		})

		r.Route("/strategies", func(r chi.Router) {
			r.Post("/", controllers.StrategyCreate(svc.Strategies, logg))
			r.Get("/{strategyId}", controllers.StrategyGet(svc.Strategies, logg))
			r.Put("/{strategyId}/steps", controllers.StrategyReplaceSteps(svc.Strategies, logg))
		})

		r.Post("/cart/quote", cartcontrollers.CartQuote(svc.Cart, logg))
		r.Post("/checkout/reconcile", controllers.CheckoutReconcile(svc.Checkout, logg))
	})

	return r
}
