package domain

import (
	"errors"
	"fmt"
)

// Sale-state errors carry no data; plain sentinels.
var (
	ErrAlreadyCancelled = errors.New("sale has already been cancelled")
	ErrNotCancelled     = errors.New("sale is not cancelled")
)

// ValidationError reports bad input shape or value.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// NotFoundError reports an absent id. Kind is "item" or "sale".
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with id %d", e.Kind, e.ID)
}

// InsufficientStockError carries the quantity actually available.
type InsufficientStockError struct {
	ItemID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
