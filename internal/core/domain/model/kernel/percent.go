package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrPercentIsNotConstructed is returned when validating a zero-value Percent.
var ErrPercentIsNotConstructed = errs.NewValueIsRequiredError("percent must be created via NewPercent or PercentFromString")

var hundred = decimal.NewFromInt(100)

// Percent is a non-negative percentage held as an exact decimal, so values
// like 5 or 4.99 compare without floating point drift.
//
// Example:
//
//	tolerance, err := kernel.PercentFromString("5")
//	if err != nil {
//	    return err
//	}
//	deviation := kernel.RelativeDeviation(104, 100) // 4%
//	deviation.GreaterThan(tolerance)                // false
type Percent struct { //nolint:recvcheck //using for validation
	value       decimal.Decimal
	constructed bool
}

// NewPercent validates that value is not negative.
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() {
		return Percent{}, errs.NewValueIsOutOfRangeError("percent", value.String(), 0, "unbounded")
	}
	return Percent{value: value, constructed: true}, nil
}

// PercentFromString parses a decimal string such as "5", "2.5" or "0".
func PercentFromString(s string) (Percent, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Percent{}, errs.NewValueIsInvalidErrorWithCause("percent", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewPercent(value)
}

// ZeroPercent returns 0%.
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero, constructed: true}
}

// RelativeDeviation returns |actual - reference| / reference * 100.
// A zero reference is satisfied by definition and yields 0%.
func RelativeDeviation(actual, reference int) Percent {
	if reference == 0 {
		return ZeroPercent()
	}

	diff := decimal.NewFromInt(int64(actual - reference)).Abs()
	value := diff.Div(decimal.NewFromInt(int64(reference))).Mul(hundred)
	return Percent{value: value.Abs(), constructed: true}
}

// Decimal returns the underlying value.
func (p Percent) Decimal() decimal.Decimal {
	return p.value
}

// GreaterThan reports whether p is strictly above other.
func (p Percent) GreaterThan(other Percent) bool {
	return p.value.GreaterThan(other.value)
}

// Float64 returns the value for metrics and JSON responses.
func (p Percent) Float64() float64 {
	f, _ := p.value.Float64()
	return f
}

// String renders the value with at most two decimal places, e.g. "4.35".
func (p Percent) String() string {
	return p.value.Round(2).String()
}

// Validate returns ErrPercentIsNotConstructed for the zero value.
func (p Percent) Validate() error {
	if !p.constructed {
		return ErrPercentIsNotConstructed
	}
	return nil
}
