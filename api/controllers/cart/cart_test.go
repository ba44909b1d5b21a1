package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/Cesium55/food-mobile-sub000/internal/cart"
	"github.com/Cesium55/food-mobile-sub000/pkg/enums"
	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
)

type stubCartService struct {
	quote *cartsvc.Quote
	err   error
	last  cartsvc.QuoteInput
}

func (s *stubCartService) Quote(ctx context.Context, input cartsvc.QuoteInput) (*cartsvc.Quote, error) {
	s.last = input
	return s.quote, s.err
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCartQuoteSuccess(t *testing.T) {
	shopID := uuid.New()
	itemID := uuid.New()
	now := time.Date(2026, time.May, 1, 18, 0, 0, 0, time.UTC)
	line := cartsvc.LineItem{
		ID:           itemID,
		OfferID:      uuid.New(),
		ShopID:       shopID,
		Quantity:     2,
		OriginalCost: dec("5.00"),
		CurrentCost:  dec("3.5"),
		ExpiresAt:    now.Add(time.Hour),
	}
	items := []cartsvc.LineItem{line}
	stub := &stubCartService{quote: &cartsvc.Quote{
		Items:    items,
		Summary:  cartsvc.Summarize(items, cartsvc.NewSelection(itemID)),
		Warnings: []cartsvc.LineWarning{{ItemID: itemID, Type: enums.CartItemWarningTypePriceChanged, Message: "price changed"}},
		PricedAt: now,
	}}

	body := `{"items":[{"id":"` + itemID.String() + `","offer_id":"` + line.OfferID.String() + `","shop_id":"` + shopID.String() + `","quantity":2,"resolved_current_cost":"4.00","expires_at":"2026-05-01T19:00:00Z"}],"selected_item_ids":["` + itemID.String() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CartQuote(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(stub.last.Items) != 1 || stub.last.Items[0].Quantity != 2 || *stub.last.Items[0].ResolvedCurrentCost != "4.00" {
		t.Fatalf("unexpected service input %+v", stub.last)
	}
	if len(stub.last.Selected) != 1 || stub.last.Selected[0] != itemID {
		t.Fatalf("selection not forwarded: %+v", stub.last.Selected)
	}

	var envelope struct {
		Data QuoteResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	got := envelope.Data
	if len(got.Groups) != 1 || got.Groups[0].Subtotal != "7.00" {
		t.Fatalf("unexpected groups %+v", got.Groups)
	}
	if got.Groups[0].Items[0].LineTotal != "7.00" || *got.Groups[0].Items[0].CurrentCost != "3.50" {
		t.Fatalf("unexpected line %+v", got.Groups[0].Items[0])
	}
	if got.All.Discount != "3.00" || got.Selected.Units != 2 {
		t.Fatalf("unexpected totals all=%+v selected=%+v", got.All, got.Selected)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Type != enums.CartItemWarningTypePriceChanged {
		t.Fatalf("unexpected warnings %+v", got.Warnings)
	}
}

func TestCartQuoteRejectsUnknownFields(t *testing.T) {
	stub := &stubCartService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(`{"items":[],"coupon":"X"}`))
	resp := httptest.NewRecorder()
	CartQuote(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartQuotePropagatesServiceErrors(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "offers unavailable")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(`{"items":[]}`))
	resp := httptest.NewRecorder()
	CartQuote(stub, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeDependency)) {
		t.Fatalf("expected dependency code, got %s", resp.Body.String())
	}
}
