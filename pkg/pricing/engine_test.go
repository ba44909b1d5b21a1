package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
)

var evalAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dynamicOffer(strategyID uuid.UUID, remaining time.Duration) Offer {
	return Offer{
		ID:                uuid.New(),
		BaseCost:          "100.00",
		PricingStrategyID: &strategyID,
		ExpiresAt:         evalAt.Add(remaining),
		AvailableQuantity: 5,
	}
}

// Stored out of order on purpose.
func decayStrategy(id uuid.UUID) *Strategy {
	return &Strategy{
		ID:   id,
		Name: "evening markdown",
		Steps: []Step{
			{TimeRemainingSeconds: 1800, DiscountPercent: pct(25)},
			{TimeRemainingSeconds: 600, DiscountPercent: pct(50)},
			{TimeRemainingSeconds: 3600, DiscountPercent: pct(10)},
		},
	}
}

func TestResolveCurrentPriceFixedDiscountIgnoresTime(t *testing.T) {
	offer := Offer{
		ID:                  uuid.New(),
		BaseCost:            "89.90",
		FixedDiscountedCost: strPtr("69.90"),
		ExpiresAt:           evalAt.Add(time.Hour),
	}

	for _, now := range []time.Time{evalAt, evalAt.Add(59 * time.Minute), evalAt.Add(48 * time.Hour)} {
		price, err := ResolveCurrentPrice(offer, nil, now)
		require.NoError(t, err)
		require.NotNil(t, price.Current)
		assert.Equal(t, "69.90", FormatAmount(*price.Current))
		assert.Equal(t, enums.PriceSourceFixed, price.Source)
		assert.Equal(t, 22, price.DiscountPercent())
	}
}

func TestResolveCurrentPriceFallsBackToBaseCost(t *testing.T) {
	offer := Offer{ID: uuid.New(), BaseCost: "89.9", ExpiresAt: evalAt.Add(time.Hour)}

	price, err := ResolveCurrentPrice(offer, nil, evalAt)
	require.NoError(t, err)
	require.NotNil(t, price.Current)
	assert.Equal(t, "89.90", FormatAmount(*price.Current))
	assert.True(t, price.Current.Equal(price.Base))
	assert.Equal(t, enums.PriceSourceBase, price.Source)
	assert.Zero(t, price.DiscountPercent())

	offer.FixedDiscountedCost = strPtr("   ")
	price, err = ResolveCurrentPrice(offer, nil, evalAt)
	require.NoError(t, err)
	assert.Equal(t, enums.PriceSourceBase, price.Source)
}

func TestResolveCurrentPriceStepSelection(t *testing.T) {
	strategyID := uuid.New()
	strategy := decayStrategy(strategyID)

	tests := []struct {
		name      string
		remaining time.Duration
		price     string
		discount  int
		threshold int64
		stepped   bool
	}{
		{name: "before schedule starts", remaining: 7200 * time.Second, price: "100.00", discount: 0},
		{name: "exactly on first threshold", remaining: 3600 * time.Second, price: "90.00", discount: 10, threshold: 3600, stepped: true},
		{name: "between thresholds", remaining: 2000 * time.Second, price: "90.00", discount: 10, threshold: 3600, stepped: true},
		{name: "exactly on middle threshold", remaining: 1800 * time.Second, price: "75.00", discount: 25, threshold: 1800, stepped: true},
		{name: "inside last window", remaining: 300 * time.Second, price: "50.00", discount: 50, threshold: 600, stepped: true},
		{name: "expired now", remaining: 0, price: "50.00", discount: 50, threshold: 600, stepped: true},
		{name: "expired long ago", remaining: -3 * time.Hour, price: "50.00", discount: 50, threshold: 600, stepped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := ResolveCurrentPrice(dynamicOffer(strategyID, tt.remaining), strategy, evalAt)
			require.NoError(t, err)
			require.False(t, price.Pending())
			assert.Equal(t, tt.price, FormatAmount(*price.Current))
			assert.Equal(t, tt.discount, price.DiscountPercent())
			assert.Equal(t, enums.PriceSourceStrategy, price.Source)
			if !tt.stepped {
				assert.Nil(t, price.Step)
				return
			}
			require.NotNil(t, price.Step)
			assert.Equal(t, tt.threshold, price.Step.TimeRemainingSeconds)
		})
	}
}

func TestResolveCurrentPriceTruncatesPartialSeconds(t *testing.T) {
	strategyID := uuid.New()
	offer := dynamicOffer(strategyID, 3600*time.Second+900*time.Millisecond)

	price, err := ResolveCurrentPrice(offer, decayStrategy(strategyID), evalAt)
	require.NoError(t, err)
	assert.Equal(t, "90.00", FormatAmount(*price.Current))
}

func TestResolveCurrentPriceRoundsHalfUp(t *testing.T) {
	strategyID := uuid.New()
	offer := dynamicOffer(strategyID, time.Minute)
	offer.BaseCost = "0.05"
	strategy := &Strategy{ID: strategyID, Name: "half", Steps: []Step{{TimeRemainingSeconds: 600, DiscountPercent: pct(50)}}}

	price, err := ResolveCurrentPrice(offer, strategy, evalAt)
	require.NoError(t, err)
	assert.Equal(t, "0.03", FormatAmount(*price.Current))

	offer.BaseCost = "19.99"
	strategy.Steps[0].DiscountPercent = decimal.RequireFromString("33.3")
	price, err = ResolveCurrentPrice(offer, strategy, evalAt)
	require.NoError(t, err)
	// 19.99 * 0.667 = 13.33333
	assert.Equal(t, "13.33", FormatAmount(*price.Current))
}

func TestResolveCurrentPricePendingStrategy(t *testing.T) {
	offer := dynamicOffer(uuid.New(), time.Hour)
	offer.FixedDiscountedCost = strPtr("10.00")

	price, err := ResolveCurrentPrice(offer, nil, evalAt)
	require.NoError(t, err)
	assert.True(t, price.Pending())
	assert.Equal(t, enums.PriceSourcePending, price.Source)
	assert.Equal(t, "100.00", FormatAmount(price.Display()))
	assert.Zero(t, price.DiscountPercent())
}

func TestResolveCurrentPriceIgnoresFixedCostWhenStrategySet(t *testing.T) {
	strategyID := uuid.New()
	offer := dynamicOffer(strategyID, 2*time.Hour)
	offer.FixedDiscountedCost = strPtr("10.00")

	price, err := ResolveCurrentPrice(offer, decayStrategy(strategyID), evalAt)
	require.NoError(t, err)
	assert.Equal(t, "100.00", FormatAmount(*price.Current))
}

func TestResolveCurrentPriceEmptyStrategy(t *testing.T) {
	strategyID := uuid.New()
	price, err := ResolveCurrentPrice(dynamicOffer(strategyID, 0), &Strategy{ID: strategyID}, evalAt)
	require.NoError(t, err)
	assert.Equal(t, "100.00", FormatAmount(*price.Current))
	assert.Nil(t, price.Step)
}

func TestResolveCurrentPriceInvalidOfferData(t *testing.T) {
	strategyID := uuid.New()
	tests := []struct {
		name     string
		offer    Offer
		strategy *Strategy
	}{
		{name: "missing base", offer: Offer{BaseCost: ""}},
		{name: "non numeric base", offer: Offer{BaseCost: "12,50"}},
		{name: "zero base", offer: Offer{BaseCost: "0.00"}},
		{name: "negative base", offer: Offer{BaseCost: "-1"}},
		{name: "non numeric discount", offer: Offer{BaseCost: "10.00", FixedDiscountedCost: strPtr("abc")}},
		{name: "discount above base", offer: Offer{BaseCost: "10.00", FixedDiscountedCost: strPtr("10.01")}},
		{name: "negative discount", offer: Offer{BaseCost: "10.00", FixedDiscountedCost: strPtr("-0.01")}},
		{name: "sub-cent base", offer: Offer{BaseCost: "89.905"}},
		{name: "sub-cent discount", offer: Offer{BaseCost: "10.00", FixedDiscountedCost: strPtr("4.995")}},
		{name: "strategy mismatch", offer: dynamicOffer(strategyID, time.Hour), strategy: decayStrategy(uuid.New())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCurrentPrice(tt.offer, tt.strategy, evalAt)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOfferData))
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidOfferData))
		})
	}
}

func TestResolveCurrentPriceClampsOutOfRangeSteps(t *testing.T) {
	strategyID := uuid.New()
	strategy := &Strategy{ID: strategyID, Steps: []Step{{TimeRemainingSeconds: 600, DiscountPercent: pct(130)}}}

	price, err := ResolveCurrentPrice(dynamicOffer(strategyID, time.Minute), strategy, evalAt)
	require.NoError(t, err)
	assert.Equal(t, "0.00", FormatAmount(*price.Current))
	assert.Equal(t, 100, price.DiscountPercent())
}

func TestResolveDiscountPercent(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		current *string
		want    int
	}{
		{name: "regular", base: "100.00", current: strPtr("75.00"), want: 25},
		{name: "rounds half up", base: "200.00", current: strPtr("199.00"), want: 1},
		{name: "rounds down below half", base: "300.00", current: strPtr("299.00"), want: 0},
		{name: "inconsistent current above base", base: "100.00", current: strPtr("100.01"), want: 0},
		{name: "negative current", base: "100.00", current: strPtr("-5.00"), want: 100},
		{name: "free", base: "100.00", current: strPtr("0"), want: 100},
		{name: "nil current", base: "100.00", want: 0},
		{name: "zero base", base: "0", current: strPtr("0"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDiscountPercent(tt.base, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveDiscountPercent("n/a", strPtr("1.00"))
	require.ErrorIs(t, err, ErrInvalidOfferData)
	_, err = ResolveDiscountPercent("1.00", strPtr("n/a"))
	require.ErrorIs(t, err, ErrInvalidOfferData)
}

func TestPriceOffersIsolatesFailures(t *testing.T) {
	strategyID := uuid.New()
	offers := []Offer{
		{ID: uuid.New(), BaseCost: "10.00", ExpiresAt: evalAt.Add(time.Hour)},
		{ID: uuid.New(), BaseCost: "broken", ExpiresAt: evalAt.Add(time.Hour)},
		dynamicOffer(strategyID, 1000*time.Second),
		dynamicOffer(uuid.New(), time.Hour),
	}
	strategies := Strategies{strategyID: decayStrategy(strategyID)}

	results := PriceOffers(offers, strategies, evalAt)
	require.Len(t, results, 4)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "10.00", FormatAmount(*results[0].Price.Current))

	require.ErrorIs(t, results[1].Err, ErrInvalidOfferData)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "75.00", FormatAmount(*results[2].Price.Current))

	require.NoError(t, results[3].Err)
	assert.True(t, results[3].Price.Pending())
}
