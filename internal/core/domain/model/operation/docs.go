// Package operation records the stock movements of the inventory ledger.
//
// Every reservation made by an order produces one Unload operation per line,
// and every load reported by an operator produces one Load operation, whether
// the reconciler accepts or rejects it. Operations are never updated or
// deleted; together they form the per-item history served by the catalog API.
package operation
