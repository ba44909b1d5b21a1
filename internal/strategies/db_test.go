package strategies

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Cesium55/food-mobile-sub000/pkg/config"
	"github.com/Cesium55/food-mobile-sub000/pkg/db"
)

const strategySchema = `
CREATE TABLE IF NOT EXISTS pricing_strategies (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_pricing_strategies_shop_name ON pricing_strategies (shop_id, name);
CREATE TABLE IF NOT EXISTS pricing_strategy_steps (
  id TEXT PRIMARY KEY,
  strategy_id TEXT NOT NULL REFERENCES pricing_strategies(id) ON DELETE CASCADE,
  time_remaining_seconds INTEGER NOT NULL,
  discount_percent TEXT NOT NULL
);`

func openTestClient(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: db.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Exec(context.Background(), strategySchema).Error)
	return client
}
