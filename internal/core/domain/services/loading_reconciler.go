package services

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOutOfOrder is the rejection reason for a load of an item that has no
	// line in the order.
	ErrOutOfOrder = errors.New("item does not belong to the order")

	// ErrSequenceViolation is the rejection reason for a load targeting a line
	// behind the highest position already loaded.
	ErrSequenceViolation = errors.New("load goes backward in the loading sequence")

	// ErrToleranceExceeded is the rejection reason for a load that leaves its
	// line deviating from the requested quantity by more than the tolerance.
	ErrToleranceExceeded = errors.New("loaded quantity exceeds deviation tolerance")
)

// DefaultTolerance is the deviation accepted when none is configured.
const DefaultTolerance = "5"

// Outcome is the result class of one reconciled load.
type Outcome int

const (
	// OutcomeUnknown is the zero value.
	OutcomeUnknown Outcome = iota
	// Accepted means the load was applied and the order is still in progress.
	Accepted
	// Completed means the load was applied and every line is now loaded.
	Completed
	// Rejected means the load broke a rule and the order failed.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "ACCEPTED"
	case Completed:
		return "COMPLETED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Reconciliation describes what a load did to the order.
type Reconciliation struct {
	Outcome Outcome
	// Reason wraps ErrOutOfOrder, ErrSequenceViolation or ErrToleranceExceeded
	// when Outcome is Rejected.
	Reason error
	// Applied tells whether the delta reached the ledger and the line.
	Applied bool
	// Report is filled when Outcome is Completed.
	Report []order.LineReport
}

// LoadingReconciler applies operator loads to an in-progress order.
//
// Business rules:
//   - Only items with a line in the order may be loaded
//   - Lines are loaded in non-decreasing position order; repeating the current
//     position is allowed
//   - A line whose deviation exceeds the tolerance fails the order, the load
//     stays in the ledger
//   - The order completes once every line is loaded exactly as requested
//
// Example usage:
//
//	tolerance, _ := kernel.PercentFromString("5")
//	reconciler := services.NewLoadingReconciler(tolerance)
//	result, err := reconciler.Reconcile(activeOrder, flour, 10, time.Now())
//	if err != nil {
//	    return err // order not in progress, invalid delta
//	}
//	if result.Outcome == services.Rejected {
//	    // activeOrder.Status() == order.Failed
//	}
type LoadingReconciler struct {
	ledger    InventoryLedger
	tolerance kernel.Percent
}

// NewLoadingReconciler creates a reconciler accepting deviations up to
// tolerance inclusive.
func NewLoadingReconciler(tolerance kernel.Percent) (LoadingReconciler, error) {
	if err := tolerance.Validate(); err != nil {
		return LoadingReconciler{}, errs.NewValueIsRequiredErrorWithCause("tolerance", err)
	}
	return LoadingReconciler{
		ledger:    NewInventoryLedger(),
		tolerance: tolerance,
	}, nil
}

// Tolerance returns the configured deviation limit.
func (r LoadingReconciler) Tolerance() kernel.Percent {
	return r.tolerance
}

// Reconcile applies delta units of i to o.
//
// Parameters:
//   - o: the order, which must be IN_PROGRESS
//   - i: the loaded item, looked up by the caller
//   - delta: the loaded quantity, must be greater than 0
//   - now: the time of the load
//
// Returns:
//   - Reconciliation: the outcome; o and i are mutated accordingly
//   - error: nothing was mutated. Wraps order.ErrIllegalTransition when o is
//     not in progress, item.ErrUnknownItem when i is nil, or a validation error.
//
// Algorithm:
//  1. Locate the line of i; none fails the order with ErrOutOfOrder
//  2. A line behind the cursor fails the order with ErrSequenceViolation
//  3. Record the load on the ledger and on the line
//  4. A deviation above tolerance fails the order with ErrToleranceExceeded
//  5. Every line loaded exactly completes the order
func (r LoadingReconciler) Reconcile(o *order.Order, i *item.Item, delta int, now time.Time) (Reconciliation, error) {
	if err := o.Validate(); err != nil {
		return Reconciliation{}, err
	}
	if i == nil {
		return Reconciliation{}, item.ErrUnknownItem
	}
	if err := i.Validate(); err != nil {
		return Reconciliation{}, err
	}
	if o.Status() != order.InProgress {
		return Reconciliation{}, fmt.Errorf("%w: order %s is %s", order.ErrIllegalTransition, o.ID(), o.Status())
	}
	if delta <= 0 {
		return Reconciliation{}, errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("%d is not greater than 0", delta))
	}

	line, ok := o.LineForItem(i.ID())
	if !ok {
		return r.reject(o, false, fmt.Errorf("%w: item %s, order %s", ErrOutOfOrder, i.ID(), o.ID()), now)
	}

	if line.Position() < o.HighestLoadedPosition() {
		return r.reject(o, false, fmt.Errorf("%w: position %d is behind %d",
			ErrSequenceViolation, line.Position(), o.HighestLoadedPosition()), now)
	}

	if err := r.ledger.RecordLoad(i, delta, now); err != nil {
		return Reconciliation{}, err
	}
	if err := o.ApplyLoad(line.Position(), delta, now); err != nil {
		return Reconciliation{}, err
	}

	if deviation := line.DeviationPercent(); deviation.GreaterThan(r.tolerance) {
		return r.reject(o, true, fmt.Errorf("%w: line %d deviates %s%%, tolerance is %s%%",
			ErrToleranceExceeded, line.Position(), deviation, r.tolerance), now)
	}

	if o.IsFullyLoaded() {
		if err := o.Complete(now); err != nil {
			return Reconciliation{}, err
		}
		return Reconciliation{Outcome: Completed, Applied: true, Report: o.Report()}, nil
	}

	return Reconciliation{Outcome: Accepted, Applied: true}, nil
}

func (r LoadingReconciler) reject(o *order.Order, applied bool, reason error, now time.Time) (Reconciliation, error) {
	if err := o.Fail(now); err != nil {
		return Reconciliation{}, err
	}
	return Reconciliation{Outcome: Rejected, Reason: reason, Applied: applied}, nil
}
