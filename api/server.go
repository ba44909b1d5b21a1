package api

import (
	"net/http"

	"github.com/Cesium55/food-mobile-sub000/pkg/config"
)

// NewServer wraps handler in an http.Server bound to addr with the
// configured timeouts.
func NewServer(cfg *config.Config, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
}
