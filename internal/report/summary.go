// Package report aggregates ledger entries into period summaries.
//
// Aggregation never fails: it takes whatever entries it is given, treats
// unknown categories by their raw identifier and sums in integer cents so
// every total reconciles exactly with its breakdowns.
package report

import (
	"cmp"
	"slices"

	"ledger/internal/core"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category core.Category
	Label    string
	Amount   core.Money
}

// BankAmount represents an expense amount aggregated by bank.
type BankAmount struct {
	Bank   string
	Amount core.Money
}

// PeriodSummary is the aggregate view of one period's entries.
type PeriodSummary struct {
	TotalIncome  core.Money
	TotalExpense core.Money

	byCategory map[core.Kind]map[core.Category]core.Money
	byBank     map[string]core.Money
	entries    []core.LedgerEntry
}

// Balance is income minus expenses.
func (s PeriodSummary) Balance() core.Money {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// Summarize aggregates entries. The input order is kept for Recent.
func Summarize(entries []core.LedgerEntry) PeriodSummary {
	s := PeriodSummary{
		byCategory: map[core.Kind]map[core.Category]core.Money{
			core.KindExpense: {},
			core.KindIncome:  {},
		},
		byBank:  map[string]core.Money{},
		entries: slices.Clone(entries),
	}
	for _, e := range entries {
		switch e.Kind {
		case core.KindExpense:
			s.TotalExpense = s.TotalExpense.Add(e.Amount)
			s.byBank[e.Bank] = s.byBank[e.Bank].Add(e.Amount)
		case core.KindIncome:
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
		default:
			continue
		}
		bucket := s.byCategory[e.Kind]
		bucket[e.Category] = bucket[e.Category].Add(e.Amount)
	}
	return s
}

// CategoryTotals maps each category of kind with at least one entry to its sum.
func (s PeriodSummary) CategoryTotals(kind core.Kind) map[core.Category]core.Money {
	out := make(map[core.Category]core.Money, len(s.byCategory[kind]))
	for c, m := range s.byCategory[kind] {
		out[c] = m
	}
	return out
}

// ByCategory lists category totals of kind, largest first, ties by id.
func (s PeriodSummary) ByCategory(kind core.Kind) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(s.byCategory[kind]))
	for c, m := range s.byCategory[kind] {
		out = append(out, CategoryAmount{Category: c, Label: c.Label(), Amount: m})
	}
	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// BankTotals maps each bank with at least one expense to its sum.
func (s PeriodSummary) BankTotals() map[string]core.Money {
	out := make(map[string]core.Money, len(s.byBank))
	for b, m := range s.byBank {
		out[b] = m
	}
	return out
}

// ByBank lists expense totals per bank, largest first, ties by name.
func (s PeriodSummary) ByBank() []BankAmount {
	out := make([]BankAmount, 0, len(s.byBank))
	for b, m := range s.byBank {
		out = append(out, BankAmount{Bank: b, Amount: m})
	}
	slices.SortFunc(out, func(a, b BankAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Bank, b.Bank)
	})
	return out
}

// Recent returns the first n entries in the order they were summarized.
func (s PeriodSummary) Recent(n int) []core.LedgerEntry {
	if n <= 0 {
		return []core.LedgerEntry{}
	}
	n = min(n, len(s.entries))
	return slices.Clone(s.entries[:n])
}

// Count is the number of summarized entries.
func (s PeriodSummary) Count() int {
	return len(s.entries)
}

// YearlySeries holds per-month totals, index 0 being January.
type YearlySeries struct {
	ExpensesByMonth [12]core.Money
	IncomeByMonth   [12]core.Money
}

// SummarizeYearly buckets entries by calendar month. The caller is expected
// to pass entries of a single year; the year itself is not checked.
func SummarizeYearly(entries []core.LedgerEntry) YearlySeries {
	var ys YearlySeries
	for _, e := range entries {
		if e.OccursOn.IsZero() {
			continue
		}
		i := e.OccursOn.Month() - 1
		switch e.Kind {
		case core.KindExpense:
			ys.ExpensesByMonth[i] = ys.ExpensesByMonth[i].Add(e.Amount)
		case core.KindIncome:
			ys.IncomeByMonth[i] = ys.IncomeByMonth[i].Add(e.Amount)
		}
	}
	return ys
}

// TotalExpense sums the monthly expense buckets.
func (ys YearlySeries) TotalExpense() core.Money {
	var t core.Money
	for _, m := range ys.ExpensesByMonth {
		t = t.Add(m)
	}
	return t
}

// TotalIncome sums the monthly income buckets.
func (ys YearlySeries) TotalIncome() core.Money {
	var t core.Money
	for _, m := range ys.IncomeByMonth {
		t = t.Add(m)
	}
	return t
}
