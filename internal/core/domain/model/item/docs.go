// Package item provides the inventory item aggregate: one entry of the
// inventory ledger.
//
// An Item carries three quantities:
//   - requested: the reference amount to keep in stock, set by the catalog
//   - available: stock that can still be reserved by new orders
//   - loaded: the cumulative amount physically loaded against orders
//
// Key business rules:
//   - A reservation is rejected as a whole when available stock is insufficient,
//     so available quantity never becomes negative through a reservation
//   - A load increases both loaded and available quantity by the loaded delta
//   - Every mutation moves UpdatedAt forward and never backwards
package item
