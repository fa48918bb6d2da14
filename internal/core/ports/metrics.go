package ports

import "time"

// FulfillmentMetrics receives business events after they are committed.
type FulfillmentMetrics interface {
	// OrderCreated counts a committed order creation.
	OrderCreated()

	// OrderStatusChanged counts an order entering status.
	OrderStatusChanged(status string)

	// LoadReconciled counts a reported load by outcome and rejection reason,
	// reason being empty for accepted loads.
	LoadReconciled(outcome string, reason string, delta int)

	// ReservationRejected counts a createOrder refused for lack of stock or
	// unknown items.
	ReservationRejected(reason string)

	// ActiveOrderAge exposes for how long the current order has been in
	// progress, 0 when none is.
	ActiveOrderAge(age time.Duration)
}
