package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
// Factory failures wrap both ErrValidation and the specific kind, so callers
// may match on either.
var (
	// ErrValidation is the generic kind carried by every item factory failure.
	ErrValidation = errors.New("validation error")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrInvalidQuantity indicates a quantity outside the configured bounds.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidPrice indicates a unit price outside 0.01..999999.99.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrDuplicateName indicates a live item already uses the name, ignoring case.
	ErrDuplicateName = errors.New("duplicate item name")

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateID indicates an item id was issued twice in the same run.
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrCorruptSnapshot indicates a snapshot that could not be loaded as a whole.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
