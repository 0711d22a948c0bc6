// Package installment turns a purchase into the dated ledger entries that
// pay it off.
package installment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

const (
	MinInstallments = 2
	MaxInstallments = 24
)

// Purchase is an expense as submitted, before it is split.
type Purchase struct {
	OwnerID       string
	BaseAmount    core.Money
	Category      core.Category
	Bank          string
	PaymentMethod core.PaymentMethod
	Description   string
	StartDate     core.Date
	// InstallmentCount of 0 or 1 plans a single payment.
	InstallmentCount int
	// InterestRatePercent is applied once to the whole amount when set.
	InterestRatePercent *decimal.Decimal
}

// Installments reports whether the purchase is split.
func (p Purchase) Installments() bool {
	return p.InstallmentCount > 1
}

// Planner builds ledger entries from purchases. It never persists anything.
type Planner struct {
	newID func() string
}

func NewPlanner() *Planner {
	return &Planner{newID: uuid.NewString}
}

// Validate checks everything about a purchase that does not depend on the
// owner's configuration.
func (pl *Planner) Validate(p Purchase) error {
	if strings.TrimSpace(p.OwnerID) == "" {
		return core.ErrEmptyOwner
	}
	if err := p.BaseAmount.Validate(); err != nil {
		return err
	}
	if p.InstallmentCount < 0 || p.InstallmentCount > MaxInstallments {
		return core.ErrInvalidInstallmentCount
	}
	if p.InterestRatePercent != nil && p.InterestRatePercent.IsNegative() {
		return core.ErrInvalidInterestRate
	}
	if !p.Category.ValidFor(core.KindExpense) {
		return core.ErrInvalidCategory
	}
	if !p.PaymentMethod.ValidFor(core.KindExpense) {
		return core.ErrInvalidPaymentMethod
	}
	if p.Installments() && p.PaymentMethod != core.PaymentCredit {
		return core.ErrInstallmentNotCredit
	}
	if strings.TrimSpace(p.Bank) == "" {
		return core.ErrEmptyBank
	}
	if len(strings.TrimSpace(p.Description)) > core.MaxDescriptionLength {
		return core.ErrDescriptionTooLong
	}
	if err := p.StartDate.Validate(); err != nil {
		return err
	}
	return nil
}

// Plan validates p and returns its entries in installment order. Entries
// have no ID yet; the store assigns one.
func (pl *Planner) Plan(owner core.OwnerConfig, p Purchase) ([]core.LedgerEntry, error) {
	if err := pl.Validate(p); err != nil {
		return nil, err
	}
	if !owner.HasBank(p.Bank) {
		return nil, core.ErrUnknownBank
	}

	total := p.BaseAmount
	if p.InterestRatePercent != nil {
		var err error
		if total, err = core.ApplyInterest(total, *p.InterestRatePercent); err != nil {
			return nil, err
		}
	}

	base := core.LedgerEntry{
		OwnerID:       p.OwnerID,
		Kind:          core.KindExpense,
		Category:      p.Category,
		Bank:          strings.TrimSpace(p.Bank),
		PaymentMethod: p.PaymentMethod,
		Description:   strings.TrimSpace(p.Description),
	}

	if !p.Installments() {
		e := base
		e.Amount = total
		e.OccursOn = p.StartDate
		if err := e.Validate(); err != nil {
			return nil, err
		}
		return []core.LedgerEntry{e}, nil
	}

	n := p.InstallmentCount
	if total.Cents < int64(n) {
		return nil, core.ErrAmountTooSmall
	}
	amounts := Split(total, n)
	purchaseID := pl.newID()
	label := base.Description
	if label == "" {
		label = p.Category.Label()
	}

	entries := make([]core.LedgerEntry, n)
	for i := range n {
		e := base
		e.Amount = amounts[i]
		e.OccursOn = p.StartDate.AddMonths(i)
		e.Description = fmt.Sprintf("%s (%d/%d)", label, i+1, n)
		e.Installment = &core.Installment{PurchaseID: purchaseID, Index: i + 1, Total: n}
		// The " (i/n)" suffix can push a description near the limit over it.
		if err := e.Validate(); err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}

// Split divides total into n integer-cent parts. Every part but the last is
// floor(total/n); the last absorbs the remainder so the parts sum to total.
func Split(total core.Money, n int) []core.Money {
	if n < 1 {
		return nil
	}
	per := total.Cents / int64(n)
	out := make([]core.Money, n)
	for i := range n - 1 {
		out[i] = core.Cents(per)
	}
	out[n-1] = core.Cents(total.Cents - per*int64(n-1))
	return out
}

// VerifyPlan checks the grouping invariants of a planned or stored purchase:
// a single shared purchase id and total, shared category, bank and payment
// method, and indices exactly 1..total.
func VerifyPlan(entries []core.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	first := entries[0]
	if first.Installment == nil {
		if len(entries) != 1 {
			return core.ErrInvalidInstallment
		}
		return nil
	}
	seen := make([]bool, first.Installment.Total+1)
	if len(entries) != first.Installment.Total {
		return core.ErrInvalidInstallment
	}
	for _, e := range entries {
		in := e.Installment
		if in == nil || in.PurchaseID != first.Installment.PurchaseID || in.Total != first.Installment.Total {
			return core.ErrInvalidInstallment
		}
		if e.Category != first.Category || e.Bank != first.Bank || e.PaymentMethod != first.PaymentMethod {
			return core.ErrInstallmentSharedField
		}
		if in.Index < 1 || in.Index > in.Total || seen[in.Index] {
			return core.ErrInvalidInstallment
		}
		seen[in.Index] = true
	}
	return nil
}
