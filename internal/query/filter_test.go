package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func entry(id string, kind core.Kind, cat core.Category, bank string, pm core.PaymentMethod, d core.Date) core.LedgerEntry {
	return core.LedgerEntry{
		ID: id, OwnerID: "o", Kind: kind, Amount: core.Cents(100),
		Category: cat, Bank: bank, PaymentMethod: pm, OccursOn: d,
	}
}

func fixtures() []core.LedgerEntry {
	return []core.LedgerEntry{
		entry("a", core.KindExpense, core.CategoryFood, "Santander", core.PaymentDebit, core.NewDate(2024, 3, 10)),
		entry("b", core.KindIncome, core.CategorySalary, "Itau", core.PaymentNotApplicable, core.NewDate(2024, 3, 5)),
		entry("c", core.KindExpense, core.CategoryHealth, "Itau", core.PaymentCredit, core.NewDate(2024, 4, 1)),
		entry("d", core.KindExpense, core.CategoryFood, "Itau", core.PaymentCredit, core.NewDate(2024, 3, 10)),
		entry("e", core.KindExpense, core.CategoryLeisure, "Santander", core.PaymentPix, core.NewDate(2023, 12, 31)),
		entry("f", core.KindExpense, core.CategoryFood, "Santander", core.PaymentCredit, core.NewDate(2024, 5, 20)),
	}
}

func ids(entries []core.LedgerEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestFilterOrdersNewestFirstWithStableTies(t *testing.T) {
	got := Collect(Filter(fixtures(), Spec{}))
	assert.Equal(t, []string{"f", "c", "a", "d", "b", "e"}, ids(got))
}

func TestFilterFields(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		want []string
	}{
		{"categories", Spec{Categories: []core.Category{core.CategoryFood, core.CategoryHealth}}, []string{"f", "c", "a", "d"}},
		{"year month", Spec{YearMonth: &YearMonth{Year: 2024, Month: 3}}, []string{"a", "d", "b"}},
		{"year", Spec{Year: 2023}, []string{"e"}},
		{"year month beats year", Spec{YearMonth: &YearMonth{Year: 2024, Month: 4}, Year: 2023}, []string{"c"}},
		{"bank", Spec{Bank: "Itau"}, []string{"c", "d", "b"}},
		{"payment method", Spec{PaymentMethod: core.PaymentCredit}, []string{"f", "c", "d"}},
		{"combined", Spec{Bank: "Santander", Categories: []core.Category{core.CategoryFood}, Year: 2024}, []string{"f", "a"}},
		{"no match", Spec{Bank: "Nubank"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Collect(Filter(fixtures(), tc.spec))))
		})
	}
}

func TestFilterFutureOnly(t *testing.T) {
	spec := Spec{FutureOnly: true, Today: core.NewDate(2024, 4, 1)}
	got := Collect(Filter(fixtures(), spec))
	assert.Equal(t, []string{"f", "c"}, ids(got))

	spec.YearMonth = &YearMonth{Year: 2024, Month: 3}
	assert.Empty(t, Collect(Filter(fixtures(), spec)))
}

func TestFilterEmptyCategoriesMeansNoConstraint(t *testing.T) {
	all := ids(Collect(Filter(fixtures(), Spec{})))
	empty := ids(Collect(Filter(fixtures(), Spec{Categories: []core.Category{}})))
	assert.Equal(t, all, empty)
	assert.Len(t, empty, 6)
}

func TestFilterIsIdempotent(t *testing.T) {
	spec := Spec{PaymentMethod: core.PaymentCredit, Year: 2024}
	once := Collect(Filter(fixtures(), spec))
	twice := Collect(Filter(once, spec))
	assert.Equal(t, ids(once), ids(twice))
}

func TestFilterIsLazyAndRestartable(t *testing.T) {
	entries := fixtures()
	seq := Filter(entries, Spec{Bank: "Santander"})

	// Evaluated at range time, not at construction.
	entries[0].Bank = "Itau"

	first := Collect(seq)
	second := Collect(seq)
	assert.Equal(t, []string{"f", "e"}, ids(first))
	assert.Equal(t, ids(first), ids(second))

	var n int
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSpecPredicate(t *testing.T) {
	p := Spec{YearMonth: &YearMonth{Year: 2024, Month: 2}}.Predicate()
	assert.Equal(t, "2024-02-01", p.From.String())
	assert.Equal(t, "2024-02-29", p.To.String())

	p = Spec{FutureOnly: true, Today: core.NewDate(2024, 6, 15), Year: 2024}.Predicate()
	assert.Equal(t, core.KindExpense, p.Kind)
	assert.Equal(t, "2024-06-15", p.From.String())
	assert.Equal(t, "2024-12-31", p.To.String())
}

func TestSpecValidate(t *testing.T) {
	require.NoError(t, Spec{YearMonth: &YearMonth{Year: 2024, Month: 12}}.Validate())
	require.ErrorIs(t, Spec{YearMonth: &YearMonth{Year: 2024, Month: 13}}.Validate(), core.ErrValidation)
	require.ErrorIs(t, Spec{Year: -1}.Validate(), core.ErrValidation)
}
