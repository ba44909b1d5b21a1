package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/Cesium55/food-mobile-sub000/pkg/errors"
)

// Step applies DiscountPercent once no more than TimeRemainingSeconds of the
// offer's life is left.
type Step struct {
	TimeRemainingSeconds int64
	DiscountPercent      decimal.Decimal
}

// Strategy is an ordered discount schedule shared by many offers.
type Strategy struct {
	ID    uuid.UUID
	Name  string
	Steps []Step
}

// Strategies indexes loaded strategies by id.
type Strategies map[uuid.UUID]*Strategy

// For returns the loaded strategy the offer references, or nil when the
// offer has none or it has not been loaded yet.
func (s Strategies) For(offer Offer) *Strategy {
	if !offer.HasStrategy() {
		return nil
	}
	return s[*offer.PricingStrategyID]
}

// SortedSteps returns a copy of the steps ordered by threshold ascending.
func (s Strategy) SortedSteps() []Step {
	steps := make([]Step, len(s.Steps))
	copy(steps, s.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].TimeRemainingSeconds < steps[j].TimeRemainingSeconds
	})
	return steps
}

// StepAt selects the step in force when remaining seconds are left.
//
// The nearest threshold at or above remaining wins. Nothing applies while
// remaining exceeds every threshold. Once no time is left the deepest
// discount applies.
func (s Strategy) StepAt(remaining int64) (Step, bool) {
	steps := s.SortedSteps()
	if len(steps) == 0 {
		return Step{}, false
	}
	if remaining <= 0 {
		deepest := steps[0]
		for _, step := range steps[1:] {
			if step.DiscountPercent.GreaterThan(deepest.DiscountPercent) {
				deepest = step
			}
		}
		return deepest, true
	}
	for _, step := range steps {
		if step.TimeRemainingSeconds >= remaining {
			return step, true
		}
	}
	return Step{}, false
}

// Validate checks the schedule a seller submits.
func (s Strategy) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "strategy name is required")
	}
	if len(s.Steps) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "strategy requires at least one step")
	}
	seen := make(map[int64]struct{}, len(s.Steps))
	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		if step.TimeRemainingSeconds < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "step threshold must be non-negative").
				WithDetails(map[string]any{"field": field})
		}
		if step.DiscountPercent.IsNegative() || step.DiscountPercent.GreaterThan(hundred) {
			return pkgerrors.New(pkgerrors.CodeValidation, "step discount must be between 0 and 100").
				WithDetails(map[string]any{"field": field})
		}
		if _, dup := seen[step.TimeRemainingSeconds]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "step thresholds must be unique").
				WithDetails(map[string]any{"field": field, "threshold": step.TimeRemainingSeconds})
		}
		seen[step.TimeRemainingSeconds] = struct{}{}
	}
	return nil
}
