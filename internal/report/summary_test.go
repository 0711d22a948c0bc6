package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func expense(id string, cents int64, cat core.Category, bank string, d core.Date) core.LedgerEntry {
	return core.LedgerEntry{
		ID: id, OwnerID: "o", Kind: core.KindExpense, Amount: core.Cents(cents),
		Category: cat, Bank: bank, PaymentMethod: core.PaymentDebit, OccursOn: d,
	}
}

func income(id string, cents int64, cat core.Category, d core.Date) core.LedgerEntry {
	return core.LedgerEntry{
		ID: id, OwnerID: "o", Kind: core.KindIncome, Amount: core.Cents(cents),
		Category: cat, Bank: "Itau", PaymentMethod: core.PaymentNotApplicable, OccursOn: d,
	}
}

func sample() []core.LedgerEntry {
	return []core.LedgerEntry{
		expense("e1", 5000, core.CategoryFood, "Santander", core.NewDate(2024, 3, 20)),
		income("i1", 500000, core.CategorySalary, core.NewDate(2024, 3, 5)),
		expense("e2", 7000, core.CategoryFood, "Itau", core.NewDate(2024, 3, 12)),
		expense("e3", 12050, core.CategoryHealth, "Santander", core.NewDate(2024, 3, 2)),
		expense("e4", 300, "pets", "Other", core.NewDate(2024, 3, 1)),
	}
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize(sample())

	assert.Equal(t, int64(500000), s.TotalIncome.Cents)
	assert.Equal(t, int64(24350), s.TotalExpense.Cents)
	assert.Equal(t, int64(500000-24350), s.Balance().Cents)
	assert.Equal(t, 5, s.Count())
}

func TestSummarizeByCategory(t *testing.T) {
	s := Summarize(sample())

	got := s.ByCategory(core.KindExpense)
	require.Len(t, got, 3)
	assert.Equal(t, CategoryAmount{Category: core.CategoryHealth, Label: "Health", Amount: core.Cents(12050)}, got[0])
	assert.Equal(t, CategoryAmount{Category: core.CategoryFood, Label: "Food", Amount: core.Cents(12000)}, got[1])
	assert.Equal(t, CategoryAmount{Category: "pets", Label: "pets", Amount: core.Cents(300)}, got[2])

	inc := s.CategoryTotals(core.KindIncome)
	assert.Equal(t, map[core.Category]core.Money{core.CategorySalary: core.Cents(500000)}, inc)
	_, hasSales := inc[core.CategorySales]
	assert.False(t, hasSales, "categories without entries are omitted")
}

func TestSummarizeByBankIgnoresIncome(t *testing.T) {
	s := Summarize(sample())
	assert.Equal(t, map[string]core.Money{
		"Santander": core.Cents(17050),
		"Itau":      core.Cents(7000),
		"Other":     core.Cents(300),
	}, s.BankTotals())
	assert.Equal(t, "Santander", s.ByBank()[0].Bank)
}

func TestSummarizeReconciles(t *testing.T) {
	s := Summarize(sample())

	var byCat, byBank int64
	for _, c := range s.ByCategory(core.KindExpense) {
		byCat += c.Amount.Cents
	}
	for _, b := range s.ByBank() {
		byBank += b.Amount.Cents
	}
	assert.Equal(t, s.TotalExpense.Cents, byCat)
	assert.Equal(t, s.TotalExpense.Cents, byBank)
}

func TestRecentKeepsInputOrder(t *testing.T) {
	s := Summarize(sample())

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "e1", recent[0].ID)
	assert.Equal(t, "i1", recent[1].ID)

	assert.Len(t, s.Recent(50), 5)
	assert.Empty(t, s.Recent(0))
	assert.Empty(t, s.Recent(-3))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalExpense.Cents)
	assert.Zero(t, s.TotalIncome.Cents)
	assert.Empty(t, s.ByCategory(core.KindExpense))
	assert.Empty(t, s.ByBank())
	assert.Empty(t, s.Recent(10))
}

func TestSummarizeYearly(t *testing.T) {
	entries := []core.LedgerEntry{
		expense("a", 5000, core.CategoryFood, "Santander", core.NewDate(2024, 3, 3)),
		expense("b", 7000, core.CategoryLeisure, "Itau", core.NewDate(2024, 3, 28)),
		income("c", 100000, core.CategorySales, core.NewDate(2024, 12, 31)),
	}
	ys := SummarizeYearly(entries)

	for i, m := range ys.ExpensesByMonth {
		if i == 2 {
			assert.Equal(t, int64(12000), m.Cents)
			continue
		}
		assert.Zero(t, m.Cents, "month index %d", i)
	}
	assert.Equal(t, int64(100000), ys.IncomeByMonth[11].Cents)
	assert.Equal(t, int64(12000), ys.TotalExpense().Cents)
	assert.Equal(t, int64(100000), ys.TotalIncome().Cents)
}
