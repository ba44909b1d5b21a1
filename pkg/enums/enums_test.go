package enums

import "testing"

func TestParseOrderLineStatus(t *testing.T) {
	for _, status := range validOrderLineStatuses {
		got, err := ParseOrderLineStatus(string(status))
		if err != nil {
			t.Fatalf("parse %q: %v", status, err)
		}
		if got != status || !got.IsValid() {
			t.Fatalf("expected %q got %q", status, got)
		}
	}
	if _, err := ParseOrderLineStatus("partial"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParsePriceSource(t *testing.T) {
	got, err := ParsePriceSource("strategy")
	if err != nil || got != PriceSourceStrategy {
		t.Fatalf("unexpected parse result %q %v", got, err)
	}
	if PriceSource("dynamic").IsValid() {
		t.Fatal("dynamic is not a known price source")
	}
}

func TestParseFulfillmentOutcome(t *testing.T) {
	if _, err := ParseFulfillmentOutcome("some_fulfilled"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseFulfillmentOutcome(""); err == nil {
		t.Fatal("expected error for empty outcome")
	}
}

func TestParseCartItemWarningType(t *testing.T) {
	for _, warning := range validCartItemWarningTypes {
		if _, err := ParseCartItemWarningType(warning.String()); err != nil {
			t.Fatalf("parse %q: %v", warning, err)
		}
	}
	if CartItemWarningType("clamped_to_moq").IsValid() {
		t.Fatal("clamped_to_moq is not a cart warning")
	}
}
