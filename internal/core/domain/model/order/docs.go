// Package order provides the order aggregate of the fulfillment domain: a
// fixed, ordered set of item quantities that is fulfilled through a stream of
// load events.
//
// The package includes:
//   - Order: the aggregate root, owning its lines and the loading cursor
//   - Line: one item-quantity pair; its position defines the loading sequence
//   - Status and Transition: the order lifecycle as a pure transition table
//
// Key business rules:
//   - Status follows CREATED -> IN_PROGRESS -> COMPLETED | FAILED
//   - COMPLETED and FAILED are terminal: status, lines and cursor never change again
//   - Requested quantities are a snapshot taken when the order is created
//   - An item appears at most once in an order
//   - The cursor only moves forward along line positions
package order
