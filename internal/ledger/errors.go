package ledger

import (
	"fmt"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
)

// InsufficientStockError is returned when a decrement exceeds the stock on hand.
// It matches apperr.InsufficientStockErr with errors.Is.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return apperr.InsufficientStockErr.WithMsgf(
		"Not enough stock for %s. Requested: %d, available: %d", e.ProductName, e.Requested, e.Available)
}
