package checkout

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

type stubOffers struct {
	offers map[uuid.UUID]pricing.Offer
	err    error
	calls  int
}

func (s *stubOffers) Authoritative(context.Context, []uuid.UUID) (map[uuid.UUID]pricing.Offer, pricing.Strategies, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.offers, nil, nil
}

func newService(t *testing.T, offers *stubOffers, reg prometheus.Registerer) (Service, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	svc, err := NewService(ServiceParams{
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: buf}),
		Offers:  offers,
		Metrics: metrics.NewPricingMetrics(reg),
		Clock:   func() time.Time { return commitAt },
	})
	require.NoError(t, err)
	return svc, buf
}

func TestServiceReconcile(t *testing.T) {
	one := stockedOffer(3, time.Hour)
	two := stockedOffer(2, time.Hour)
	reg := prometheus.NewRegistry()
	svc, logs := newService(t, &stubOffers{offers: index(one, two)}, reg)

	got, err := svc.Reconcile(context.Background(), []RequestedLine{
		{OfferID: one.ID, Quantity: 3, ExpectedPrice: strPtr("11.00")},
		{OfferID: two.ID, Quantity: 5},
		{OfferID: uuid.New(), Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.FulfillmentOutcomeSome, got.Outcome)
	assert.Equal(t, "36.00", pricing.FormatAmount(got.PayableTotal))
	assert.Equal(t, commitAt, got.ReconciledAt)
	require.Len(t, got.Lines, 3)
	assert.True(t, got.Lines[0].PriceChanged)
	assert.Contains(t, logs.String(), "order line price differs from buyer snapshot")
	assert.Contains(t, logs.String(), `"outcome":"some_fulfilled"`)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "checkout_reconciled_lines_total")
	assert.Contains(t, names, "checkout_reconciliations_total")
	assert.Contains(t, names, "checkout_reconcile_duration_seconds")
}

func TestServiceReconcileRejectsBatchBeforeLookup(t *testing.T) {
	offers := &stubOffers{}
	svc, _ := newService(t, offers, nil)

	id := uuid.New()
	_, err := svc.Reconcile(context.Background(), []RequestedLine{{OfferID: id, Quantity: 1}, {OfferID: id, Quantity: 1}})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidBatch))
	assert.Zero(t, offers.calls)
}

func TestServiceReconcileDependencyFailure(t *testing.T) {
	svc, _ := newService(t, &stubOffers{err: errors.New("connection refused")}, nil)
	_, err := svc.Reconcile(context.Background(), []RequestedLine{{OfferID: uuid.New(), Quantity: 1}})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceValidatesParams(t *testing.T) {
	_, err := NewService(ServiceParams{Offers: &stubOffers{}})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Logger: logger.New(logger.Options{Output: &bytes.Buffer{}})})
	assert.Error(t, err)
}
