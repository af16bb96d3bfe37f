package domain

import "errors"

var (
	// ErrItemNotFound indicates no item matches the given barcode or ID.
	ErrItemNotFound = errors.New("item not found")

	// ErrLocationNotFound indicates an unknown shelf location ID.
	ErrLocationNotFound = errors.New("location not found")

	// ErrEmptyDeclaration indicates a declaration batch with no positive
	// quantity lines.
	ErrEmptyDeclaration = errors.New("declaration has no positive quantities")

	// ErrDuplicateSubmit indicates an identical declaration batch was
	// committed within the double-submit window.
	ErrDuplicateSubmit = errors.New("identical declaration was just processed")
)
