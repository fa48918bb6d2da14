// Package services provides the domain services of the fulfillment engine,
// the rules that span an order and the inventory items it references.
//
// The package includes:
//   - InventoryLedger: all-or-nothing reservation of an order's lines and load recording
//   - LoadingReconciler: sequencing, deviation tolerance and completion of loading events
//
// Services are pure with respect to storage. Callers load and lock the
// aggregates, run the service, and persist whatever it mutated inside the
// same unit of work.
package services
