// Package guard provides ConstructorGuard, a marker embedded in value objects,
// entities and commands to tell instances built by their constructor apart
// from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the object is a zero
// value and the caller did not supply a more specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing struct was created through its
// constructor. The zero value is "not constructed".
//
// Example usage:
//
//	var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine")
//
//	type Line struct {
//	    itemID   kernel.UUID
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func (l Line) Validate() error {
//	    return l.guard.Validate(ErrLineIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
