package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

var (
	// ErrIllegalTransition is returned for any status change missing from the
	// transition table, including same-state changes.
	ErrIllegalTransition = errors.New("illegal order status transition")

	// ErrActiveOrderExists is returned when an order is taken in charge while
	// another order is already IN_PROGRESS.
	ErrActiveOrderExists = errors.New("another order is already in progress")
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	CREATED ──> IN_PROGRESS ──┬──> COMPLETED
//	                          └──> FAILED
//
// COMPLETED and FAILED are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the status of an order whose quantities have been reserved.
	Created

	// InProgress indicates the order has been taken in charge and is being loaded.
	// At most one order is in this status at any time.
	InProgress

	// Completed indicates every line has been loaded exactly.
	Completed

	// Failed indicates loading deviated from the order and was stopped.
	Failed
)

var statusNames = map[Status]string{
	Created:    "CREATED",
	InProgress: "IN_PROGRESS",
	Completed:  "COMPLETED",
	Failed:     "FAILED",
}

// transitions lists, for each source status, the statuses it may move to.
// Statuses without an entry are terminal.
var transitions = map[Status][]Status{
	Created:    {InProgress},
	InProgress: {Completed, Failed},
}

// Transition is the order state machine. It is a pure function of the current
// and the target status and holds no state of its own.
//
// Returns:
//   - (target, nil) when the edge exists in the transition table
//   - (current, error wrapping ErrIllegalTransition) otherwise
//
// Example:
//
//	next, err := order.Transition(order.Created, order.Completed)
//	// next == order.Created, errors.Is(err, order.ErrIllegalTransition)
func Transition(current Status, target Status) (Status, error) {
	for _, allowed := range transitions[current] {
		if allowed == target {
			return target, nil
		}
	}

	return current, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
}

// ParseStatus converts a wire name such as "IN_PROGRESS" into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the four lifecycle statuses.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "UNKNOWN".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(transitions[s]) == 0
}
