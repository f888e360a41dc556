package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stockcart/internal/db"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInventoryExceeded = errors.New("inventory exceeded")
	ErrOutOfStock        = errors.New("out of stock")
)

// ValidationError lists the rejected fields keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// InsufficientStockError names the cart line that could not be satisfied
// when the cart was completed.
type InsufficientStockError struct {
	CartID    int64
	ProductID int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cart %d: product %d: not enough stock for %d units", e.CartID, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInventoryExceeded }

// storeError maps storage errors onto the service error kinds.
func storeError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case db.IsCheckViolation(err):
		return fmt.Errorf("%s: %w: %v", what, ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
