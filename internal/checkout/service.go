package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

type offerSource interface {
	Authoritative(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID]pricing.Offer, pricing.Strategies, error)
}

// Reconciliation is the service-level result of reconciling an order request.
type Reconciliation struct {
	Lines        []OrderLineResult
	Outcome      enums.FulfillmentOutcome
	PayableTotal decimal.Decimal
	ReconciledAt time.Time
}

// Service reconciles order requests against authoritative offers.
type Service interface {
	Reconcile(ctx context.Context, lines []RequestedLine) (*Reconciliation, error)
}

// ServiceParams configure the checkout service.
type ServiceParams struct {
	Logger  *logger.Logger
	Offers  offerSource
	Metrics *metrics.PricingMetrics
	Clock   func() time.Time
}

type service struct {
	logg    *logger.Logger
	offers  offerSource
	metrics *metrics.PricingMetrics
	now     func() time.Time
}

// NewService builds the checkout reconciliation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Offers == nil {
		return nil, fmt.Errorf("offer source required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		logg:    params.Logger,
		offers:  params.Offers,
		metrics: params.Metrics,
		now:     clock,
	}, nil
}

func (s *service) Reconcile(ctx context.Context, lines []RequestedLine) (*Reconciliation, error) {
	if err := ValidateRequest(lines); err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() { s.metrics.ObserveReconcile(time.Since(started)) }()

	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.OfferID
	}
	offers, strategies, err := s.offers.Authoritative(ctx, ids)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offers")
	}

	now := s.now().UTC()
	results, err := Reconcile(lines, offers, strategies, now)
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		s.metrics.IncLine(result.Status.String())
		lineCtx := s.logg.WithOfferID(ctx, result.OfferID.String())
		switch {
		case result.Status == enums.OrderLineStatusPriceUnavailable:
			s.logg.Warn(lineCtx, "order line price unavailable at commit")
		case result.PriceChanged:
			s.logg.Warn(s.logg.WithField(lineCtx, "price_at_commit", pricing.FormatAmount(*result.PriceAtCommit)), "order line price differs from buyer snapshot")
		}
	}

	outcome := Classify(results)
	s.metrics.IncOutcome(outcome.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"lines":   len(results),
		"outcome": outcome.String(),
	}), "order request reconciled")

	return &Reconciliation{
		Lines:        results,
		Outcome:      outcome,
		PayableTotal: PayableTotal(results),
		ReconciledAt: now,
	}, nil
}
