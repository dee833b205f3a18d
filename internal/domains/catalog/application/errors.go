package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrIDMismatch signals the path identifier differs from the payload identifier.
	ErrIDMismatch = errors.New("product id does not match the request path")
	// ErrDuplicate is matched by every uniqueness failure.
	ErrDuplicate  = errors.New("product already exists")
	ErrCodeTaken  = errors.New("product code already in use")
	ErrModelTaken = errors.New("product model already in use")
)

// DuplicateError reports every unique attribute already held by another product.
type DuplicateError struct {
	CodeTaken  bool
	ModelTaken bool
}

func (e *DuplicateError) Error() string {
	var parts []string
	if e.CodeTaken {
		parts = append(parts, ErrCodeTaken.Error())
	}
	if e.ModelTaken {
		parts = append(parts, ErrModelTaken.Error())
	}
	if len(parts) == 0 {
		return ErrDuplicate.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *DuplicateError) Is(target error) bool {
	switch target {
	case ErrDuplicate:
		return true
	case ErrCodeTaken:
		return e.CodeTaken
	case ErrModelTaken:
		return e.ModelTaken
	}
	return false
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNameRequired) ||
		errors.Is(err, domain.ErrModelRequired) ||
		errors.Is(err, domain.ErrCodeRequired) ||
		errors.Is(err, domain.ErrCodeTooLong) ||
		errors.Is(err, domain.ErrURLTooLong) ||
		errors.Is(err, domain.ErrPriceOutOfRange) ||
		errors.Is(err, domain.ErrWeightOutOfRange) ||
		errors.Is(err, domain.ErrDimensionOutOfRange) ||
		errors.Is(err, domain.ErrTooManyDecimals) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrUniqueViolation) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
