package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 10")
	ErrInvalidToken      = errors.New("invalid download token")
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
	ErrEmailRequired     = errors.New("email verification required")
	ErrNoFilesFound      = errors.New("no files found for this order")
)

// ProductUnavailableError aborts cart additions and whole checkouts when a
// referenced product is missing or inactive.
type ProductUnavailableError struct {
	ProductID int64
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product with ID %d not found or inactive", e.ProductID)
}
