package enums

import "fmt"

// PriceSource records which pricing rule produced an offer's current price.
type PriceSource string

const (
	PriceSourceBase     PriceSource = "base"
	PriceSourceFixed    PriceSource = "fixed"
	PriceSourceStrategy PriceSource = "strategy"
	PriceSourcePending  PriceSource = "pending"
)

var validPriceSources = []PriceSource{
	PriceSourceBase,
	PriceSourceFixed,
	PriceSourceStrategy,
	PriceSourcePending,
}

// String implements fmt.Stringer.
func (p PriceSource) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceSource.
func (p PriceSource) IsValid() bool {
	for _, candidate := range validPriceSources {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriceSource converts raw input into a PriceSource.
func ParsePriceSource(value string) (PriceSource, error) {
	for _, candidate := range validPriceSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price source %q", value)
}
