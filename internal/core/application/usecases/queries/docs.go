// Package queries contains read-only operations of the CQRS architecture.
//
// Query handlers read through the repositories of a unit of work that is
// never begun, so they observe committed state only and never take locks.
// Every handler returns plain response structs detached from the aggregates.
package queries
