package http

import (
	"ledger/internal/core"
	"ledger/internal/report"
	"ledger/internal/services"
)

// Amounts travel as decimal strings ("12.34"); a comma is accepted on input.

type purchaseRequest struct {
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Bank          string `json:"bank"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	// Date is YYYY-MM-DD and defaults to today.
	Date         string `json:"date"`
	Installments int    `json:"installments"`
	// InterestRate is a percentage applied once to the whole amount.
	InterestRate string `json:"interest_rate"`
}

type incomeRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Bank        string `json:"bank"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// patchRequest leaves fields that are absent from the body unchanged.
type patchRequest struct {
	Kind          *string `json:"kind"`
	Amount        *string `json:"amount"`
	Category      *string `json:"category"`
	Bank          *string `json:"bank"`
	PaymentMethod *string `json:"payment_method"`
	Description   *string `json:"description"`
	Date          *string `json:"date"`
}

type bankRequest struct {
	Name string `json:"name"`
}

type installmentResponse struct {
	PurchaseID string `json:"purchase_id"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
}

type entryResponse struct {
	ID                 string               `json:"id"`
	Kind               string               `json:"kind"`
	Amount             string               `json:"amount"`
	Category           string               `json:"category"`
	CategoryLabel      string               `json:"category_label"`
	Bank               string               `json:"bank"`
	PaymentMethod      string               `json:"payment_method"`
	PaymentMethodLabel string               `json:"payment_method_label"`
	Description        string               `json:"description"`
	Date               string               `json:"date"`
	Period             string               `json:"period"`
	Installment        *installmentResponse `json:"installment,omitempty"`
}

type entriesResponse struct {
	Entries []entryResponse `json:"entries"`
	Count   int             `json:"count"`
	Total   string          `json:"total"`
}

type amountByName struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type monthResponse struct {
	Month   int    `json:"month"`
	Expense string `json:"expense"`
	Income  string `json:"income"`
}

type dashboardResponse struct {
	Period             string          `json:"period"`
	From               string          `json:"from"`
	To                 string          `json:"to"`
	TotalIncome        string          `json:"total_income"`
	TotalExpense       string          `json:"total_expense"`
	Balance            string          `json:"balance"`
	ExpensesByCategory []amountByName  `json:"expenses_by_category"`
	IncomeByCategory   []amountByName  `json:"income_by_category"`
	ExpensesByBank     []amountByName  `json:"expenses_by_bank"`
	Months             []monthResponse `json:"months"`
	Recent             []entryResponse `json:"recent"`
	Upcoming           []entryResponse `json:"upcoming"`
}

type banksResponse struct {
	Banks []string `json:"banks"`
}

type labelled struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type vocabularyResponse struct {
	ExpenseCategories []labelled `json:"expense_categories"`
	IncomeCategories  []labelled `json:"income_categories"`
	PaymentMethods    []labelled `json:"payment_methods"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func toEntryResponse(e core.LedgerEntry) entryResponse {
	out := entryResponse{
		ID:                 e.ID,
		Kind:               string(e.Kind),
		Amount:             e.Amount.String(),
		Category:           string(e.Category),
		CategoryLabel:      e.Category.Label(),
		Bank:               e.Bank,
		PaymentMethod:      string(e.PaymentMethod),
		PaymentMethodLabel: e.PaymentMethod.Label(),
		Description:        e.Description,
		Date:               e.OccursOn.String(),
		Period:             e.PeriodKey(),
	}
	if in := e.Installment; in != nil {
		out.Installment = &installmentResponse{PurchaseID: in.PurchaseID, Index: in.Index, Total: in.Total}
	}
	return out
}

func toEntriesResponse(entries []core.LedgerEntry) entriesResponse {
	out := entriesResponse{Entries: toEntryList(entries), Count: len(entries)}
	var total core.Money
	for _, e := range entries {
		if e.Kind == core.KindIncome {
			total = total.Add(e.Amount)
		} else {
			total = total.Sub(e.Amount)
		}
	}
	out.Total = total.String()
	return out
}

func toEntryList(entries []core.LedgerEntry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out
}

func toCategoryAmounts(in []report.CategoryAmount) []amountByName {
	out := make([]amountByName, len(in))
	for i, c := range in {
		out[i] = amountByName{Key: string(c.Category), Label: c.Label, Amount: c.Amount.String()}
	}
	return out
}

func toDashboardResponse(d services.Dashboard) dashboardResponse {
	banks := d.Summary.ByBank()
	byBank := make([]amountByName, len(banks))
	for i, b := range banks {
		byBank[i] = amountByName{Key: b.Bank, Label: b.Bank, Amount: b.Amount.String()}
	}
	months := make([]monthResponse, 12)
	for i := range months {
		months[i] = monthResponse{
			Month:   i + 1,
			Expense: d.Yearly.ExpensesByMonth[i].String(),
			Income:  d.Yearly.IncomeByMonth[i].String(),
		}
	}
	return dashboardResponse{
		Period:             string(d.Granularity),
		From:               d.Period.Start.String(),
		To:                 d.Period.End.String(),
		TotalIncome:        d.Summary.TotalIncome.String(),
		TotalExpense:       d.Summary.TotalExpense.String(),
		Balance:            d.Summary.Balance().String(),
		ExpensesByCategory: toCategoryAmounts(d.Summary.ByCategory(core.KindExpense)),
		IncomeByCategory:   toCategoryAmounts(d.Summary.ByCategory(core.KindIncome)),
		ExpensesByBank:     byBank,
		Months:             months,
		Recent:             toEntryList(d.Recent),
		Upcoming:           toEntryList(d.Upcoming),
	}
}

func vocabulary() vocabularyResponse {
	cats := func(k core.Kind) []labelled {
		var out []labelled
		for _, c := range core.CategoriesFor(k) {
			out = append(out, labelled{ID: string(c), Label: c.Label()})
		}
		return out
	}
	var methods []labelled
	for _, p := range core.PaymentMethods() {
		methods = append(methods, labelled{ID: string(p), Label: p.Label()})
	}
	return vocabularyResponse{
		ExpenseCategories: cats(core.KindExpense),
		IncomeCategories:  cats(core.KindIncome),
		PaymentMethods:    methods,
	}
}
