package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Cesium55/food-mobile-sub000/internal/repo"
	"github.com/Cesium55/food-mobile-sub000/pkg/db/models"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
	"github.com/Cesium55/food-mobile-sub000/pkg/pagination"
	"github.com/Cesium55/food-mobile-sub000/pkg/pricing"
)

type offerStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Offer, error)
	ListActiveByShop(ctx context.Context, shopID uuid.UUID, now time.Time, page pagination.Params) ([]models.Offer, string, error)
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) (*models.Offer, error)
}

type strategyResolver interface {
	ResolveMany(ctx context.Context, ids []uuid.UUID) (pricing.Strategies, error)
}

type strategyLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PricingStrategy, error)
}

// Service exposes offer pricing and seller offer management.
type Service interface {
	Quote(ctx context.Context, offerID uuid.UUID) (*PriceQuote, error)
	ListShop(ctx context.Context, shopID uuid.UUID, page pagination.Params) (*OfferPage, error)
	Create(ctx context.Context, input CreateOfferInput) (*OfferDTO, error)
	Update(ctx context.Context, offerID uuid.UUID, input UpdateOfferInput) (*OfferDTO, error)
	Authoritative(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID]pricing.Offer, pricing.Strategies, error)
}

// ServiceParams configure the offer service. Metrics and Clock are optional.
type ServiceParams struct {
	Logger     *logger.Logger
	Repo       offerStore
	Resolver   strategyResolver
	Strategies strategyLookup
	Metrics    *metrics.PricingMetrics
	Clock      func() time.Time
}

type service struct {
	logg       *logger.Logger
	repo       offerStore
	resolver   strategyResolver
	strategies strategyLookup
	metrics    *metrics.PricingMetrics
	clock      func() time.Time
}

// NewService builds the offer service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("strategy resolver required")
	}
	if params.Strategies == nil {
		return nil, fmt.Errorf("strategy lookup required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		logg:       params.Logger,
		repo:       params.Repo,
		resolver:   params.Resolver,
		strategies: params.Strategies,
		metrics:    params.Metrics,
		clock:      clock,
	}, nil
}

func (s *service) Quote(ctx context.Context, offerID uuid.UUID) (*PriceQuote, error) {
	row, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, repo.NotFoundOr(err, "offer")
	}
	offer := row.ToPricing()

	strategies, err := s.resolveFor(ctx, []pricing.Offer{offer})
	if err != nil {
		return nil, err
	}

	now := s.clock()
	price, err := pricing.ResolveCurrentPrice(offer, strategies.For(offer), now)
	if err != nil {
		s.metrics.IncResolution(metrics.ResolutionInvalid)
		s.logg.Warn(s.logg.WithOfferID(ctx, offerID.String()), "offer cannot be priced: "+err.Error())
		return nil, err
	}
	s.metrics.IncResolution(price.Source.String())
	return newPriceQuote(offer, price, now), nil
}

func (s *service) ListShop(ctx context.Context, shopID uuid.UUID, page pagination.Params) (*OfferPage, error) {
	if _, err := pagination.ParseCursor(page.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").
			WithDetails(map[string]any{"field": "cursor"})
	}
	now := s.clock()
	rows, next, err := s.repo.ListActiveByShop(ctx, shopID, now, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop offers")
	}

	views := make([]pricing.Offer, len(rows))
	for i := range rows {
		views[i] = rows[i].ToPricing()
	}
	strategies, err := s.resolveFor(ctx, views)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithShopID(ctx, shopID.String())
	out := make([]OfferDTO, 0, len(rows))
	for i, result := range pricing.PriceOffers(views, strategies, now) {
		dto := toDTO(&rows[i])
		if result.Err != nil {
			dto.PricingError = result.Err.Error()
			s.metrics.IncResolution(metrics.ResolutionInvalid)
			s.logg.Warn(s.logg.WithOfferID(ctx, result.Offer.ID.String()), "offer skipped from pricing: "+result.Err.Error())
			out = append(out, *dto)
			continue
		}
		s.metrics.IncResolution(result.Price.Source.String())
		dto.Price = newPriceQuote(result.Offer, result.Price, now)
		out = append(out, *dto)
	}
	return &OfferPage{Offers: out, NextCursor: next}, nil
}

func (s *service) Create(ctx context.Context, input CreateOfferInput) (*OfferDTO, error) {
	if input.ShopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	row := &models.Offer{
		ShopID:            input.ShopID,
		Title:             strings.TrimSpace(input.Title),
		ExpiresAt:         input.ExpiresAt.UTC(),
		AvailableQuantity: input.AvailableQuantity,
		PricingStrategyID: normalizeStrategyID(input.PricingStrategyID),
	}
	if row.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	base, err := parseCost("base_cost", input.BaseCost)
	if err != nil {
		return nil, err
	}
	row.BaseCost = base
	if input.FixedDiscountedCost != nil && strings.TrimSpace(*input.FixedDiscountedCost) != "" {
		fixed, err := parseCost("fixed_discounted_cost", *input.FixedDiscountedCost)
		if err != nil {
			return nil, err
		}
		row.FixedDiscountedCost = decimal.NewNullDecimal(fixed)
	}

	if err := s.validate(ctx, row, true); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shop_id":  created.ShopID.String(),
		"offer_id": created.ID.String(),
	}), "offer created")
	return toDTO(created), nil
}

func (s *service) Update(ctx context.Context, offerID uuid.UUID, input UpdateOfferInput) (*OfferDTO, error) {
	row, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, repo.NotFoundOr(err, "offer")
	}

	if input.Title != nil {
		row.Title = strings.TrimSpace(*input.Title)
		if row.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
	}
	if input.BaseCost != nil {
		base, err := parseCost("base_cost", *input.BaseCost)
		if err != nil {
			return nil, err
		}
		row.BaseCost = base
	}
	if input.FixedDiscountedCost != nil {
		if strings.TrimSpace(*input.FixedDiscountedCost) == "" {
			row.FixedDiscountedCost = decimal.NullDecimal{}
		} else {
			fixed, err := parseCost("fixed_discounted_cost", *input.FixedDiscountedCost)
			if err != nil {
				return nil, err
			}
			row.FixedDiscountedCost = decimal.NewNullDecimal(fixed)
		}
	}
	if input.ClearStrategy {
		row.PricingStrategyID = nil
	} else if input.PricingStrategyID != nil {
		row.PricingStrategyID = normalizeStrategyID(input.PricingStrategyID)
	}
	if input.ExpiresAt != nil {
		row.ExpiresAt = input.ExpiresAt.UTC()
	}
	if input.AvailableQuantity != nil {
		row.AvailableQuantity = *input.AvailableQuantity
	}

	if err := s.validate(ctx, row, input.ExpiresAt != nil); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer")
	}
	s.logg.Info(s.logg.WithOfferID(ctx, offerID.String()), "offer updated")
	return toDTO(updated), nil
}

// Authoritative returns the stored offers among offerIDs together with every
// strategy they reference that could be resolved.
func (s *service) Authoritative(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID]pricing.Offer, pricing.Strategies, error) {
	rows, err := s.repo.FindByIDs(ctx, offerIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offers")
	}
	out := make(map[uuid.UUID]pricing.Offer, len(rows))
	views := make([]pricing.Offer, 0, len(rows))
	for _, row := range rows {
		view := row.ToPricing()
		out[view.ID] = view
		views = append(views, view)
	}
	strategies, err := s.resolveFor(ctx, views)
	if err != nil {
		return nil, nil, err
	}
	return out, strategies, nil
}

func (s *service) resolveFor(ctx context.Context, offers []pricing.Offer) (pricing.Strategies, error) {
	ids := make([]uuid.UUID, 0, len(offers))
	for _, offer := range offers {
		if offer.HasStrategy() {
			ids = append(ids, *offer.PricingStrategyID)
		}
	}
	if len(ids) == 0 {
		return pricing.Strategies{}, nil
	}
	return s.resolver.ResolveMany(ctx, ids)
}

func (s *service) validate(ctx context.Context, row *models.Offer, checkExpiry bool) error {
	if !row.BaseCost.IsPositive() {
		return fieldError("base_cost", "base cost must be greater than zero")
	}
	if row.FixedDiscountedCost.Valid {
		fixed := row.FixedDiscountedCost.Decimal
		if fixed.IsNegative() || fixed.GreaterThan(row.BaseCost) {
			return fieldError("fixed_discounted_cost", "fixed discounted cost must be between 0 and the base cost")
		}
		if row.PricingStrategyID != nil {
			return fieldError("pricing_strategy_id", "an offer uses either a fixed discounted cost or a pricing strategy")
		}
	}
	if row.AvailableQuantity < 0 {
		return fieldError("available_quantity", "available quantity must be non-negative")
	}
	if checkExpiry && !row.ExpiresAt.After(s.clock()) {
		return fieldError("expires_at", "expiry must be in the future")
	}
	if row.PricingStrategyID == nil {
		return nil
	}

	strategy, err := s.strategies.FindByID(ctx, *row.PricingStrategyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fieldError("pricing_strategy_id", "pricing strategy not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing strategy")
	}
	if strategy.ShopID != row.ShopID {
		return fieldError("pricing_strategy_id", "pricing strategy belongs to another shop")
	}
	return nil
}

func parseCost(field, raw string) (decimal.Decimal, error) {
	amount, err := pricing.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fieldError(field, "must be a decimal amount")
	}
	if !pricing.WholeCents(amount) {
		return decimal.Zero, fieldError(field, "must have at most two fraction digits")
	}
	return amount, nil
}

func normalizeStrategyID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	value := *id
	return &value
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
