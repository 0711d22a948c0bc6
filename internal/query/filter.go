// Package query selects and orders ledger entries for statements and the
// upcoming-expenses view.
package query

import (
	"iter"
	"slices"
	"time"

	"ledger/internal/core"
)

// YearMonth names a calendar month.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

func (ym YearMonth) Valid() bool {
	return ym.Year > 0 && ym.Month >= 1 && ym.Month <= 12
}

// Spec is a statement filter. Every set field must hold; unset fields do
// not constrain. YearMonth takes precedence over Year.
type Spec struct {
	// Categories is a membership set; empty means any category.
	Categories    []core.Category
	YearMonth     *YearMonth
	Year          int
	Bank          string
	PaymentMethod core.PaymentMethod
	// FutureOnly keeps expenses occurring on or after Today.
	FutureOnly bool
	// Today defaults to the current date when zero.
	Today core.Date
}

func (s Spec) Validate() error {
	if s.YearMonth != nil && !s.YearMonth.Valid() {
		return core.Invalid("month", "must be a month between 1 and 12 of a positive year")
	}
	if s.Year < 0 {
		return core.Invalid("year", "must be positive")
	}
	return nil
}

func (s Spec) today() core.Date {
	if s.Today.IsZero() {
		return core.DateOf(time.Now())
	}
	return s.Today
}

// Predicate converts the spec into the form an entry store can push down.
func (s Spec) Predicate() core.Predicate {
	p := core.Predicate{
		Categories:    slices.Clone(s.Categories),
		Bank:          s.Bank,
		PaymentMethod: s.PaymentMethod,
	}
	switch {
	case s.YearMonth != nil:
		m := core.MonthPeriod(core.NewDate(s.YearMonth.Year, s.YearMonth.Month, 1))
		p.From, p.To = m.Start, m.End
	case s.Year != 0:
		y := core.YearRange(s.Year)
		p.From, p.To = y.Start, y.End
	}
	if s.FutureOnly {
		p.Kind = core.KindExpense
		if today := s.today(); p.From.IsZero() || p.From.Before(today) {
			p.From = today
		}
	}
	return p
}

// Filter returns the entries matching spec ordered by date, newest first.
// Entries on the same date keep their input order. The sequence is lazy:
// nothing is evaluated until it is ranged over, and each range re-evaluates
// from the start.
func Filter(entries []core.LedgerEntry, spec Spec) iter.Seq[core.LedgerEntry] {
	return func(yield func(core.LedgerEntry) bool) {
		pred := spec.Predicate()
		matched := make([]core.LedgerEntry, 0, len(entries))
		for _, e := range entries {
			if pred.Matches(e) {
				matched = append(matched, e)
			}
		}
		SortNewestFirst(matched)
		for _, e := range matched {
			if !yield(e) {
				return
			}
		}
	}
}

// Collect materializes a filtered sequence.
func Collect(seq iter.Seq[core.LedgerEntry]) []core.LedgerEntry {
	out := slices.Collect(seq)
	if out == nil {
		return []core.LedgerEntry{}
	}
	return out
}

// SortNewestFirst orders by date descending, stable on ties.
func SortNewestFirst(entries []core.LedgerEntry) {
	slices.SortStableFunc(entries, func(a, b core.LedgerEntry) int {
		return b.OccursOn.Compare(a.OccursOn)
	})
}

// SortOldestFirst orders by date ascending, stable on ties.
func SortOldestFirst(entries []core.LedgerEntry) {
	slices.SortStableFunc(entries, func(a, b core.LedgerEntry) int {
		return a.OccursOn.Compare(b.OccursOn)
	})
}
