package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCustomer maps the store's foreign-key rejection of the
	// order header insert.
	ErrUnknownCustomer = errors.New("unknown customer")

	// ErrInvalidQuantity maps the store's check-constraint rejection of a
	// non-positive line quantity. Quantities are not pre-validated; the
	// constraint is the sole gate.
	ErrInvalidQuantity = errors.New("invalid quantity")

	ErrOrderNotFound = errors.New("order not found")
)

// InsufficientStockError reports the SKU whose reservation failed so callers
// can surface it. Any prior reservations in the same order are rolled back.
type InsufficientStockError struct {
	SKU string
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for sku %s", e.SKU)
}

// UnknownSKUError is distinguished from InsufficientStockError for reporting
// only; both abort the order the same way.
type UnknownSKUError struct {
	SKU string
}

func (e UnknownSKUError) Error() string {
	return fmt.Sprintf("unknown sku %s", e.SKU)
}
