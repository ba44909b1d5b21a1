package enums

import "fmt"

// CartItemWarningType enumerates reasons a quoted cart line needs the buyer's attention.
type CartItemWarningType string

const (
	CartItemWarningTypePriceChanged      CartItemWarningType = "price_changed"
	CartItemWarningTypePriceUnavailable  CartItemWarningType = "price_unavailable"
	CartItemWarningTypeNotAvailable      CartItemWarningType = "not_available"
	CartItemWarningTypeInsufficientStock CartItemWarningType = "insufficient_stock"
	CartItemWarningTypeExpiringSoon      CartItemWarningType = "expiring_soon"
	CartItemWarningTypeInvalidLine       CartItemWarningType = "invalid_line"
)

var validCartItemWarningTypes = []CartItemWarningType{
	CartItemWarningTypePriceChanged,
	CartItemWarningTypePriceUnavailable,
	CartItemWarningTypeNotAvailable,
	CartItemWarningTypeInsufficientStock,
	CartItemWarningTypeExpiringSoon,
	CartItemWarningTypeInvalidLine,
}

// String implements fmt.Stringer.
func (c CartItemWarningType) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CartItemWarningType) IsValid() bool {
	for _, candidate := range validCartItemWarningTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartItemWarningType converts raw input into a CartItemWarningType.
func ParseCartItemWarningType(value string) (CartItemWarningType, error) {
	for _, candidate := range validCartItemWarningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart item warning type %q", value)
}
