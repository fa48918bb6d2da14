package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrDuplicateItem is returned when the same item is requested twice in one order.
	ErrDuplicateItem = errors.New("item is requested more than once")

	// ErrLinesNotSatisfied is returned when completing an order whose lines do
	// not match the completion rule.
	ErrLinesNotSatisfied = errors.New("order lines are not satisfied")
)

// NoPosition is the cursor value of an order that has not been loaded yet.
const NoPosition = -1

// LineRequest asks for quantity units of an item when creating an order.
type LineRequest struct {
	ItemID   kernel.UUID
	Quantity int
}

// LineReport is the fulfillment outcome of one line.
type LineReport struct {
	LineID           kernel.UUID
	ItemID           kernel.UUID
	Position         int
	Requested        int
	Loaded           int
	Deviation        int
	DeviationPercent kernel.Percent
	Elapsed          time.Duration
}

// Order is the aggregate root of the fulfillment domain.
//
// Order follows these invariants:
//   - Must have a valid identifier and valid lines
//   - Line positions are 0..n-1 in sequence order and item ids are unique
//   - Status only changes through Transition
//   - The cursor (highest loaded position) never decreases
//   - Nothing changes once the status is terminal
type Order struct {
	id        kernel.UUID
	status    Status
	lines     []*Line
	cursor    int
	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates an order in CREATED status with one line per request, in
// request order. Reservation of the quantities is the caller's responsibility
// and must succeed before the order is persisted.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), []order.LineRequest{
//	    {ItemID: flourID, Quantity: 10},
//	    {ItemID: sugarID, Quantity: 20},
//	}, time.Now())
func NewOrder(id kernel.UUID, requests []LineRequest, now time.Time) (*Order, error) {
	lines := make([]*Line, 0, len(requests))
	var lineErrs []error
	for position, r := range requests {
		l, err := NewLine(kernel.NewUUID(), r.ItemID, position, r.Quantity, now)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", position, err))
			continue
		}
		lines = append(lines, l)
	}
	if err := errors.Join(lineErrs...); err != nil {
		return nil, err
	}

	return RestoreOrder(id, Created, NoPosition, now, now, lines)
}

// RestoreOrder rebuilds an Order from persisted state. Lines may be given in
// any order; they are sorted by position.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	cursor int,
	createdAt time.Time,
	updatedAt time.Time,
	lines []*Line,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	if err := o.setCursor(cursor); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by one of its constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// HighestLoadedPosition returns the position of the furthest line loaded so
// far, or NoPosition.
func (o *Order) HighestLoadedPosition() int {
	return o.cursor
}

// Lines returns the lines in sequence order. The slice is a copy; the lines
// themselves must not be mutated by callers.
func (o *Order) Lines() []*Line {
	lines := make([]*Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// LineForItem returns the line referencing itemID.
func (o *Order) LineForItem(itemID kernel.UUID) (*Line, bool) {
	for _, l := range o.lines {
		if l.itemID.IsEqual(itemID) {
			return l, true
		}
	}
	return nil, false
}

// TakeCharge moves the order from CREATED to IN_PROGRESS. An order without
// lines cannot be taken in charge.
//
// Returns an error wrapping ErrIllegalTransition when the order is not CREATED
// or has no lines. Admission of a single in-progress order is enforced by the
// application layer, which sees all orders.
func (o *Order) TakeCharge(now time.Time) error {
	if len(o.lines) == 0 {
		return fmt.Errorf("%w: order %s has no lines", ErrIllegalTransition, o.id)
	}
	return o.transitionTo(InProgress, now)
}

// ApplyLoad adds delta to the line at position and moves the cursor there.
// Sequence and tolerance rules are checked by the loading reconciler before
// and after this call.
func (o *Order) ApplyLoad(position int, delta int, now time.Time) error {
	if o.status != InProgress {
		return fmt.Errorf("%w: order %s is %s", ErrIllegalTransition, o.id, o.status)
	}
	if position < 0 || position >= len(o.lines) {
		return errs.NewValueIsOutOfRangeError("position", position, 0, len(o.lines)-1)
	}
	if delta <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("%d is not greater than 0", delta))
	}

	o.lines[position].load(delta, now)
	if position > o.cursor {
		o.cursor = position
	}
	o.touch(now)
	return nil
}

// IsFullyLoaded reports whether every line is loaded exactly as requested.
func (o *Order) IsFullyLoaded() bool {
	for _, l := range o.lines {
		if !l.IsSatisfied() {
			return false
		}
	}
	return true
}

// IsWithinTolerance reports whether no line deviates more than tolerance.
func (o *Order) IsWithinTolerance(tolerance kernel.Percent) bool {
	for _, l := range o.lines {
		if l.DeviationPercent().GreaterThan(tolerance) {
			return false
		}
	}
	return true
}

// Complete moves the order from IN_PROGRESS to COMPLETED once every line is
// loaded exactly.
func (o *Order) Complete(now time.Time) error {
	if o.status == InProgress && !o.IsFullyLoaded() {
		return fmt.Errorf("%w: order %s", ErrLinesNotSatisfied, o.id)
	}
	return o.transitionTo(Completed, now)
}

// CloseWithinTolerance moves the order from IN_PROGRESS to COMPLETED when every
// line is within tolerance, even if not loaded exactly. It is the manual close
// used by operators.
func (o *Order) CloseWithinTolerance(tolerance kernel.Percent, now time.Time) error {
	if o.status == InProgress && !o.IsWithinTolerance(tolerance) {
		return fmt.Errorf("%w: order %s deviates more than %s%%", ErrLinesNotSatisfied, o.id, tolerance)
	}
	return o.transitionTo(Completed, now)
}

// Fail moves the order from IN_PROGRESS to FAILED.
func (o *Order) Fail(now time.Time) error {
	return o.transitionTo(Failed, now)
}

// Report returns the per-line deviation and the time elapsed between order
// creation and the last load of each line.
func (o *Order) Report() []LineReport {
	report := make([]LineReport, 0, len(o.lines))
	for _, l := range o.lines {
		report = append(report, LineReport{
			LineID:           l.id,
			ItemID:           l.itemID,
			Position:         l.position,
			Requested:        l.requestedQuantity,
			Loaded:           l.loadedQuantity,
			Deviation:        l.Deviation(),
			DeviationPercent: l.DeviationPercent(),
			Elapsed:          l.updatedAt.Sub(o.createdAt),
		})
	}
	return report
}

func (o *Order) transitionTo(target Status, now time.Time) error {
	next, err := Transition(o.status, target)
	if err != nil {
		return fmt.Errorf("order %s: %w", o.id, err)
	}

	o.status = next
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	if now.After(o.updatedAt) {
		o.updatedAt = now
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setLines(lines []*Line) error {
	sorted := make([]*Line, len(lines))
	seen := make(map[kernel.UUID]struct{}, len(lines))
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		if l.position >= len(lines) || sorted[l.position] != nil {
			return errs.NewValueIsInvalidErrorWithCause(
				"lines",
				fmt.Errorf("position %d is duplicated or out of sequence", l.position),
			)
		}
		if _, dup := seen[l.itemID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, l.itemID)
		}
		seen[l.itemID] = struct{}{}
		sorted[l.position] = l
	}

	o.lines = sorted
	return nil
}

func (o *Order) setCursor(cursor int) error {
	if cursor < NoPosition || cursor >= len(o.lines) {
		return errs.NewValueIsOutOfRangeError("highestLoadedPosition", cursor, NoPosition, len(o.lines)-1)
	}
	o.cursor = cursor
	return nil
}
