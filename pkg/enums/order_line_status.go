package enums

import "fmt"

// OrderLineStatus is the outcome of committing one requested cart line into an order.
type OrderLineStatus string

const (
	OrderLineStatusSuccess              OrderLineStatus = "success"
	OrderLineStatusNotFound             OrderLineStatus = "not_found"
	OrderLineStatusInsufficientQuantity OrderLineStatus = "insufficient_quantity"
	OrderLineStatusExpired              OrderLineStatus = "expired"
	OrderLineStatusPriceUnavailable     OrderLineStatus = "price_unavailable"
)

var validOrderLineStatuses = []OrderLineStatus{
	OrderLineStatusSuccess,
	OrderLineStatusNotFound,
	OrderLineStatusInsufficientQuantity,
	OrderLineStatusExpired,
	OrderLineStatusPriceUnavailable,
}

// String implements fmt.Stringer.
func (s OrderLineStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderLineStatus.
func (s OrderLineStatus) IsValid() bool {
	for _, candidate := range validOrderLineStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderLineStatus converts raw input into an OrderLineStatus.
func ParseOrderLineStatus(value string) (OrderLineStatus, error) {
	for _, candidate := range validOrderLineStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order line status %q", value)
}
