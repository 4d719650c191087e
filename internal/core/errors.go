package core

import (
	"errors"
	"fmt"
)

// Error kinds shared by the contact store and the ledger. Callers match them with
// errors.Is; the concrete errors below wrap one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
)

var (
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be a calendar date in YYYY-MM-DD format", ErrValidation)
	ErrInvalidMonth    = fmt.Errorf("%w: month must be in YYYY-MM format", ErrValidation)
	ErrInvalidKind     = fmt.Errorf("%w: type must be income or expense", ErrValidation)
	ErrInvalidCurrency = fmt.Errorf("%w: unsupported currency", ErrValidation)
	ErrEmptyCategory   = fmt.Errorf("%w: empty category", ErrValidation)
	ErrEmptyName       = fmt.Errorf("%w: name is required", ErrValidation)
	ErrEmptyPhone      = fmt.Errorf("%w: phone is required", ErrValidation)
)

// StorageError reports a failed read or write against a backing store.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err, or returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

// Unwrap exposes both ErrStorage and the underlying cause.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
