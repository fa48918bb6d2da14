// Package kernel provides the shared value objects of the fulfillment domain.
//
// The package includes:
//   - UUID: identifier of items, orders, lines and operations
//   - Percent: a non-negative decimal percentage used for deviation tolerance
//     and deviation reporting
//
// Values are immutable and safe to share between goroutines. The zero value of
// every type is invalid and is rejected by its Validate method.
package kernel
