package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a checkout before any transaction is opened.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoItems rejects order assembly from an empty item list.
	ErrNoItems = errors.New("order requires at least one item")
)

type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %d", e.ProductID)
}
