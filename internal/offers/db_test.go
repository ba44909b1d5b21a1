package offers

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Cesium55/food-mobile-sub000/internal/strategies"
	"github.com/Cesium55/food-mobile-sub000/pkg/config"
	"github.com/Cesium55/food-mobile-sub000/pkg/db"
	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
)

const offerSchema = `
CREATE TABLE IF NOT EXISTS pricing_strategies (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS pricing_strategy_steps (
  id TEXT PRIMARY KEY,
  strategy_id TEXT NOT NULL,
  time_remaining_seconds INTEGER NOT NULL,
  discount_percent TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS offers (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  title TEXT NOT NULL,
  base_cost TEXT NOT NULL,
  fixed_discounted_cost TEXT,
  pricing_strategy_id TEXT,
  expires_at DATETIME NOT NULL,
  available_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`

var offerNow = time.Date(2026, time.May, 1, 18, 0, 0, 0, time.UTC)

type fixture struct {
	client     *db.Client
	offers     *Repository
	strategies *strategies.Repository
	svc        Service
	logs       *bytes.Buffer
	metrics    *metrics.PricingMetrics
}

func newFixture(t *testing.T, m *metrics.PricingMetrics) *fixture {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: db.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Exec(context.Background(), offerSchema).Error)

	logs := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: logs})
	strategyRepo := strategies.NewRepository(client.DB())
	resolver, err := strategies.NewResolver(strategies.ResolverParams{Logger: logg, Repo: strategyRepo, Metrics: m})
	require.NoError(t, err)

	offerRepo := NewRepository(client.DB())
	svc, err := NewService(ServiceParams{
		Logger:     logg,
		Repo:       offerRepo,
		Resolver:   resolver,
		Strategies: strategyRepo,
		Metrics:    m,
		Clock:      func() time.Time { return offerNow },
	})
	require.NoError(t, err)

	return &fixture{client: client, offers: offerRepo, strategies: strategyRepo, svc: svc, logs: logs, metrics: m}
}

// seedStrategy stores a 20% step at one hour and a 40% step at thirty minutes.
func (f *fixture) seedStrategy(t *testing.T, shopID uuid.UUID) uuid.UUID {
	t.Helper()
	row, err := f.strategies.Create(context.Background(), &models.PricingStrategy{
		ShopID: shopID,
		Name:   "evening-" + uuid.NewString()[:8],
		Steps: []models.PricingStrategyStep{
			{TimeRemainingSeconds: 1800, DiscountPercent: decimal.NewFromInt(40)},
			{TimeRemainingSeconds: 3600, DiscountPercent: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	return row.ID
}

func (f *fixture) seedOffer(t *testing.T, row models.Offer) *models.Offer {
	t.Helper()
	if row.Title == "" {
		row.Title = "bread box"
	}
	created, err := f.offers.Create(context.Background(), &row)
	require.NoError(t, err)
	return created
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
