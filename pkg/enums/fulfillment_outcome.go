package enums

import "fmt"

// FulfillmentOutcome summarizes a reconciled order request as a whole.
type FulfillmentOutcome string

const (
	FulfillmentOutcomeAll  FulfillmentOutcome = "all_fulfilled"
	FulfillmentOutcomeSome FulfillmentOutcome = "some_fulfilled"
	FulfillmentOutcomeNone FulfillmentOutcome = "none_fulfilled"
)

var validFulfillmentOutcomes = []FulfillmentOutcome{
	FulfillmentOutcomeAll,
	FulfillmentOutcomeSome,
	FulfillmentOutcomeNone,
}

// String implements fmt.Stringer.
func (f FulfillmentOutcome) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentOutcome.
func (f FulfillmentOutcome) IsValid() bool {
	for _, candidate := range validFulfillmentOutcomes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFulfillmentOutcome converts raw input into a FulfillmentOutcome.
func ParseFulfillmentOutcome(value string) (FulfillmentOutcome, error) {
	for _, candidate := range validFulfillmentOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment outcome %q", value)
}
