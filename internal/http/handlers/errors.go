package handlers

import (
	"errors"
	"fmt"

	"tillbook/internal/domain"
)

// userMessage turns a domain error into the flash line shown to the operator.
// Anything outside the taxonomy is reported generically; the caller logs it.
func userMessage(err error) (msg string, known bool) {
	var ve *domain.ValidationError
	var nf *domain.NotFoundError
	var is *domain.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error() + ".", true
	case errors.As(err, &nf):
		if nf.Kind == "sale" {
			return "Sale not found.", true
		}
		return fmt.Sprintf("No item found with ID %d.", nf.ID), true
	case errors.As(err, &is):
		return fmt.Sprintf("Insufficient stock. Available: %d.", is.Available), true
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return "Sale has already been cancelled.", true
	case errors.Is(err, domain.ErrNotCancelled):
		return "Sale is not cancelled.", true
	}
	return "Something went wrong. Please try again.", false
}
