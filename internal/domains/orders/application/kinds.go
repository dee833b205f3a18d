package application

import (
	"errors"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

// Error kinds name use-case failures once they cross a process boundary, such as a
// Temporal activity result.
const (
	KindNotFound               = "NotFound"
	KindUnauthenticated        = "Unauthenticated"
	KindForbidden              = "Forbidden"
	KindInvalidInput           = "InvalidInput"
	KindAlreadyClosed          = "AlreadyClosed"
	KindEmptyOrder             = "EmptyOrder"
	KindEmptyShipment          = "EmptyShipment"
	KindPreconditionFailed     = "PreconditionFailed"
	KindDirectoryLookupFailed  = "DirectoryLookupFailed"
	KindQuoteRejected          = "QuoteRejected"
	KindQuoteUnavailable       = "QuoteUnavailable"
	KindConcurrentModification = "ConcurrentModification"
)

var kindSentinels = []struct {
	kind     string
	sentinel error
}{
	{KindNotFound, ports.ErrNotFound},
	{KindUnauthenticated, auth.ErrUnauthenticated},
	{KindForbidden, auth.ErrForbidden},
	{KindInvalidInput, ErrInvalidInput},
	{KindAlreadyClosed, domain.ErrAlreadyClosed},
	{KindEmptyOrder, domain.ErrEmptyOrder},
	{KindEmptyShipment, domain.ErrEmptyShipment},
	{KindPreconditionFailed, ErrPreconditionFailed},
	{KindDirectoryLookupFailed, ErrDirectoryLookupFailed},
	{KindQuoteRejected, ErrQuoteRejected},
	{KindQuoteUnavailable, ErrQuoteUnavailable},
	{KindConcurrentModification, ports.ErrConcurrentModification},
}

// KindOf returns the kind of a known failure, or "" for anything else.
func KindOf(err error) string {
	for _, entry := range kindSentinels {
		if errors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}
	return ""
}

// FromKind rebuilds an error that matches the sentinel of kind and reads as message.
// Unknown kinds yield a plain error.
func FromKind(kind, message string) error {
	for _, entry := range kindSentinels {
		if entry.kind == kind {
			return &restoredError{sentinel: entry.sentinel, message: message}
		}
	}
	return errors.New(message)
}

type restoredError struct {
	sentinel error
	message  string
}

func (e *restoredError) Error() string { return e.message }

func (e *restoredError) Unwrap() error { return e.sentinel }
