package core

import (
	"fmt"
	"slices"
	"strings"
)

// MaxDescriptionLength bounds a stored description in bytes, including any
// installment suffix.
const MaxDescriptionLength = 200

type (
	// Installment marks an entry as one payment of a split purchase.
	Installment struct {
		PurchaseID string
		Index      int // 1-based
		Total      int
	}

	// LedgerEntry is a single dated income or expense record.
	LedgerEntry struct {
		ID            string
		OwnerID       string
		Kind          Kind
		Amount        Money
		Category      Category
		Bank          string
		PaymentMethod PaymentMethod
		Description   string
		OccursOn      Date
		Installment   *Installment
	}
)

// String renders the position as "i/n".
func (in Installment) String() string {
	return fmt.Sprintf("%d/%d", in.Index, in.Total)
}

// PeriodKey is derived from OccursOn so the two can never disagree.
func (e LedgerEntry) PeriodKey() string {
	return e.OccursOn.PeriodKey()
}

// IsInstallment reports whether the entry belongs to a split purchase.
func (e LedgerEntry) IsInstallment() bool {
	return e.Installment != nil
}

func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.ValidFor(e.Kind) {
		return ErrInvalidCategory
	}
	if !e.PaymentMethod.ValidFor(e.Kind) {
		return ErrInvalidPaymentMethod
	}
	if strings.TrimSpace(e.Bank) == "" {
		return ErrEmptyBank
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := e.OccursOn.Validate(); err != nil {
		return err
	}
	if in := e.Installment; in != nil {
		if in.PurchaseID == "" || in.Total < 1 || in.Index < 1 || in.Index > in.Total {
			return ErrInvalidInstallment
		}
		if e.Kind != KindExpense {
			return ErrInstallmentSharedField
		}
	}
	return nil
}

// EntryPatch carries the editable fields of an entry. Nil fields are left
// unchanged. Identity and installment grouping are not editable.
type EntryPatch struct {
	Kind          *Kind
	Amount        *Money
	Category      *Category
	Bank          *string
	PaymentMethod *PaymentMethod
	Description   *string
	OccursOn      *Date
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Kind == nil && p.Amount == nil && p.Category == nil && p.Bank == nil &&
		p.PaymentMethod == nil && p.Description == nil && p.OccursOn == nil
}

// Validate checks the fields that can be judged without the current entry.
func (p EntryPatch) Validate() error {
	if p.Kind != nil && !p.Kind.Valid() {
		return ErrInvalidKind
	}
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return err
		}
	}
	if p.Bank != nil && strings.TrimSpace(*p.Bank) == "" {
		return ErrEmptyBank
	}
	if p.Description != nil && len(*p.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if p.OccursOn != nil {
		if err := p.OccursOn.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPatch returns e with p applied and revalidated. Installment entries
// keep the fields shared across their purchase.
func ApplyPatch(e LedgerEntry, p EntryPatch) (LedgerEntry, error) {
	if err := p.Validate(); err != nil {
		return LedgerEntry{}, err
	}
	if e.IsInstallment() {
		if (p.Kind != nil && *p.Kind != e.Kind) ||
			(p.Category != nil && *p.Category != e.Category) ||
			(p.Bank != nil && strings.TrimSpace(*p.Bank) != e.Bank) ||
			(p.PaymentMethod != nil && *p.PaymentMethod != e.PaymentMethod) {
			return LedgerEntry{}, ErrInstallmentSharedField
		}
	}
	out := e
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Bank != nil {
		out.Bank = strings.TrimSpace(*p.Bank)
	}
	if p.PaymentMethod != nil {
		out.PaymentMethod = *p.PaymentMethod
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.OccursOn != nil {
		out.OccursOn = *p.OccursOn
	}
	if out.Installment != nil {
		in := *out.Installment
		out.Installment = &in
	}
	if err := out.Validate(); err != nil {
		return LedgerEntry{}, err
	}
	return out, nil
}

// Predicate is the storage-side form of a filter. Zero fields do not constrain.
type Predicate struct {
	Kind          Kind
	Categories    []Category
	Bank          string
	PaymentMethod PaymentMethod
	From          Date
	To            Date
}

// Matches reports whether e satisfies every set field of p.
func (p Predicate) Matches(e LedgerEntry) bool {
	if p.Kind != "" && e.Kind != p.Kind {
		return false
	}
	if len(p.Categories) > 0 && !slices.Contains(p.Categories, e.Category) {
		return false
	}
	if p.Bank != "" && e.Bank != p.Bank {
		return false
	}
	if p.PaymentMethod != "" && e.PaymentMethod != p.PaymentMethod {
		return false
	}
	if !p.From.IsZero() && e.OccursOn.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && e.OccursOn.After(p.To) {
		return false
	}
	return true
}

// Empty reports whether the predicate excludes nothing.
func (p Predicate) Empty() bool {
	return p.Kind == "" && len(p.Categories) == 0 && p.Bank == "" &&
		p.PaymentMethod == "" && p.From.IsZero() && p.To.IsZero()
}
