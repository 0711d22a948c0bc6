package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("entry not found")
	ErrStoreUnavailable = errors.New("entry store unavailable")
)

// ValidationError reports an input rejected before any store write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

var (
	ErrInvalidAmount           = &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	ErrInvalidDate             = &ValidationError{Field: "date", Reason: "must be set"}
	ErrInvalidKind             = &ValidationError{Field: "kind", Reason: "must be expense or income"}
	ErrInvalidCategory         = &ValidationError{Field: "category", Reason: "not in vocabulary for kind"}
	ErrInvalidPaymentMethod    = &ValidationError{Field: "payment_method", Reason: "unknown or not allowed for kind"}
	ErrEmptyBank               = &ValidationError{Field: "bank", Reason: "must not be empty"}
	ErrUnknownBank             = &ValidationError{Field: "bank", Reason: "not registered for owner"}
	ErrEmptyOwner              = &ValidationError{Field: "owner_id", Reason: "must not be empty"}
	ErrAmountTooSmall          = &ValidationError{Field: "amount", Reason: "smaller than one cent per installment"}
	ErrInvalidInstallmentCount = &ValidationError{Field: "installment_count", Reason: "must be between 2 and 24"}
	ErrInvalidInterestRate     = &ValidationError{Field: "interest_rate", Reason: "must not be negative"}
	ErrInstallmentNotCredit    = &ValidationError{Field: "payment_method", Reason: "installments require credit"}
	ErrInvalidInstallment      = &ValidationError{Field: "installment", Reason: "index out of range"}
	ErrDescriptionTooLong      = &ValidationError{Field: "description", Reason: "too long (max 200 characters)"}
	ErrInstallmentSharedField  = &ValidationError{Field: "installment", Reason: "kind, category, bank and payment method are shared by the whole purchase"}
)

// NotFoundError reports an edit or delete of an id the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("entry %q not found", e.ID) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StoreUnavailableError wraps a persistence boundary failure.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

// Unavailable wraps err as a StoreUnavailableError unless it already carries
// a ledger error kind.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return &StoreUnavailableError{Op: op, Err: err}
}
