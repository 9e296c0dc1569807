package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrNoItemsSelected    = errors.New("no cart items selected")
	ErrCartItemsNotFound  = errors.New("selected cart items not found")
	ErrOrderNotPending    = errors.New("order is not awaiting payment")
	ErrAmountMismatch     = errors.New("payment amount does not match the order total")
	ErrOrderNoteTooLong   = errors.New("order note is too long")
	ErrPaymentNotComplete = errors.New("payment status is not complete")

	// ErrConfirmedNotRecorded means the charge went through but the order row
	// could not be updated. The payment result is still returned alongside.
	ErrConfirmedNotRecorded = errors.New("payment confirmed but order update failed")
)

// ProductUnavailableError covers both a missing product and one that has
// been deactivated since it was carted.
type ProductUnavailableError struct {
	ProductName string
}

func (e *ProductUnavailableError) Error() string {
	if e.ProductName == "" {
		return "product is not available"
	}
	return fmt.Sprintf("%s is no longer available", e.ProductName)
}

// InsufficientStockError reports the offending product so the caller can
// show which line blocked the operation.
type InsufficientStockError struct {
	ProductName string
	Stock       int
	InCart      int
}

func (e *InsufficientStockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("not enough stock for %s (available: %d, already in cart: %d)", e.ProductName, e.Stock, e.InCart)
	}
	return fmt.Sprintf("not enough stock for %s (available: %d)", e.ProductName, e.Stock)
}
