package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cesium55/food-mobile-sub000/internal/cart"
	"github.com/Cesium55/food-mobile-sub000/internal/checkout"
	"github.com/Cesium55/food-mobile-sub000/internal/offers"
	"github.com/Cesium55/food-mobile-sub000/internal/strategies"
	"github.com/Cesium55/food-mobile-sub000/pkg/config"
	"github.com/Cesium55/food-mobile-sub000/pkg/db"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
)

const schema = `
CREATE TABLE pricing_strategies (id TEXT PRIMARY KEY, shop_id TEXT NOT NULL, name TEXT NOT NULL, created_at DATETIME, updated_at DATETIME);
CREATE UNIQUE INDEX idx_pricing_strategies_shop_name ON pricing_strategies (shop_id, name);
CREATE TABLE pricing_strategy_steps (id TEXT PRIMARY KEY, strategy_id TEXT NOT NULL, time_remaining_seconds INTEGER NOT NULL, discount_percent TEXT NOT NULL);
CREATE TABLE offers (id TEXT PRIMARY KEY, shop_id TEXT NOT NULL, title TEXT NOT NULL, base_cost TEXT NOT NULL, fixed_discounted_cost TEXT,
  pricing_strategy_id TEXT, expires_at DATETIME NOT NULL, available_quantity INTEGER NOT NULL DEFAULT 0, created_at DATETIME, updated_at DATETIME);`

var routerNow = time.Date(2026, time.May, 1, 18, 0, 0, 0, time.UTC)

type testAPI struct {
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{App: config.AppConfig{Env: "test"}, HTTP: config.HTTPConfig{AllowedOrigins: []string{"*"}}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	clock := func() time.Time { return routerNow }

	client, err := db.New(ctx, config.DBConfig{Driver: db.DriverSQLite, DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Exec(ctx, schema).Error)

	reg := prometheus.NewRegistry()
	pm := metrics.NewPricingMetrics(reg)

	strategyRepo := strategies.NewRepository(client.DB())
	resolver, err := strategies.NewResolver(strategies.ResolverParams{Logger: logg, Repo: strategyRepo, Metrics: pm})
	require.NoError(t, err)
	strategySvc, err := strategies.NewService(strategies.ServiceParams{Logger: logg, Tx: client, Repo: strategyRepo})
	require.NoError(t, err)
	offerSvc, err := offers.NewService(offers.ServiceParams{
		Logger: logg, Repo: offers.NewRepository(client.DB()), Resolver: resolver, Strategies: strategyRepo, Metrics: pm, Clock: clock,
	})
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.ServiceParams{Logger: logg, Offers: offerSvc, Clock: clock, ExpiryWarningWindow: 30 * time.Minute})
	require.NoError(t, err)
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{Logger: logg, Offers: offerSvc, Metrics: pm, Clock: clock})
	require.NoError(t, err)

	handler := NewRouter(cfg, logg,
		Deps{DB: client, Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})},
		Services{Offers: offerSvc, Strategies: strategySvc, Cart: cartSvc, Checkout: checkoutSvc},
	)
	return &testAPI{handler: handler}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var envelope map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func data(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	out, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "missing data in %v", envelope)
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec, body := api.do(t, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", data(t, body)["checks"].(map[string]any)["db"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	api.handler.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusOK, mrec.Code)
}

func TestPricingFlowEndToEnd(t *testing.T) {
	api := newTestAPI(t)
	shopID := uuid.NewString()

	rec, body := api.do(t, http.MethodPost, "/api/v1/strategies", `{"shop_id":"`+shopID+`","name":"closing","steps":[
		{"time_remaining_seconds":3600,"discount_percent":"20"},
		{"time_remaining_seconds":1800,"discount_percent":"40"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	strategyID := data(t, body)["id"].(string)

	expires := routerNow.Add(45 * time.Minute).Format(time.RFC3339)
	rec, body = api.do(t, http.MethodPost, "/api/v1/offers", `{"shop_id":"`+shopID+`","title":"bakery bag","base_cost":"10.00",
		"pricing_strategy_id":"`+strategyID+`","available_quantity":2,"expires_at":"`+expires+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dynamicID := data(t, body)["id"].(string)

	rec, body = api.do(t, http.MethodPost, "/api/v1/offers", `{"shop_id":"`+shopID+`","title":"fruit crate","base_cost":"6.00",
		"fixed_discounted_cost":"4.50","available_quantity":1,"expires_at":"`+expires+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fixedID := data(t, body)["id"].(string)

	rec, body = api.do(t, http.MethodGet, "/api/v1/offers/"+dynamicID+"/price", "")
	require.Equal(t, http.StatusOK, rec.Code)
	price := data(t, body)
	assert.Equal(t, "8.00", price["current_cost"])
	assert.Equal(t, float64(20), price["discount_percent"])

	rec, body = api.do(t, http.MethodGet, "/api/v1/shops/"+shopID+"/offers?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	firstPage := data(t, body)
	assert.Len(t, firstPage["offers"], 1)
	cursor, _ := firstPage["next_cursor"].(string)
	require.NotEmpty(t, cursor)

	rec, body = api.do(t, http.MethodGet, "/api/v1/shops/"+shopID+"/offers?limit=1&cursor="+cursor, "")
	require.Equal(t, http.StatusOK, rec.Code)
	secondPage := data(t, body)
	assert.Len(t, secondPage["offers"], 1)
	assert.Nil(t, secondPage["next_cursor"])

	itemA, itemB := uuid.NewString(), uuid.NewString()
	rec, body = api.do(t, http.MethodPost, "/api/v1/cart/quote", `{"items":[
		{"id":"`+itemA+`","offer_id":"`+dynamicID+`","shop_id":"`+shopID+`","quantity":2,"resolved_original_cost":"10.00","resolved_current_cost":"9.00","expires_at":"`+expires+`"},
		{"id":"`+itemB+`","offer_id":"`+fixedID+`","shop_id":"`+shopID+`","quantity":1,"resolved_original_cost":"6.00","resolved_current_cost":"4.50","expires_at":"`+expires+`"}],
		"selected_item_ids":["`+itemB+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := data(t, body)
	assert.Equal(t, "20.50", quote["all"].(map[string]any)["amount"])
	assert.Equal(t, "4.50", quote["selected"].(map[string]any)["amount"])
	assert.NotEmpty(t, quote["warnings"])

	rec, body = api.do(t, http.MethodPost, "/api/v1/checkout/reconcile", `{"lines":[
		{"offer_id":"`+dynamicID+`","quantity":2,"expected_price":"8.00"},
		{"offer_id":"`+fixedID+`","quantity":3},
		{"offer_id":"`+uuid.NewString()+`","quantity":1}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := data(t, body)
	assert.Equal(t, "some_fulfilled", result["outcome"])
	assert.Equal(t, "16.00", result["payable_total"])
	lines := result["lines"].([]any)
	assert.Equal(t, "success", lines[0].(map[string]any)["status"])
	assert.Equal(t, "insufficient_quantity", lines[1].(map[string]any)["status"])
	assert.Equal(t, "not_found", lines[2].(map[string]any)["status"])

	rec, _ = api.do(t, http.MethodPost, "/api/v1/checkout/reconcile", `{"lines":[{"offer_id":"`+fixedID+`","quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
