package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrPreconditionFailed signals a condition required to close the order does not hold.
	ErrPreconditionFailed = errors.New("order precondition failed")
	// ErrDirectoryLookupFailed covers CRM misses and CRM transport failures alike.
	ErrDirectoryLookupFailed = errors.New("customer directory lookup failed")
	// ErrQuoteRejected is matched by QuoteRejectedError.
	ErrQuoteRejected = errors.New("shipping quote rejected")
	// ErrQuoteUnavailable signals the carrier could not be reached or answered unreadably.
	ErrQuoteUnavailable = errors.New("shipping quote unavailable")
)

// QuoteRejectedError carries the carrier's business error.
type QuoteRejectedError struct {
	Code    string
	Message string
}

func (e *QuoteRejectedError) Error() string {
	return fmt.Sprintf("%s: carrier error %s: %s", ErrQuoteRejected, e.Code, e.Message)
}

func (e *QuoteRejectedError) Is(target error) bool {
	return target == ErrQuoteRejected
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidOwner) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidQuote) {
		return fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}
	return err
}
