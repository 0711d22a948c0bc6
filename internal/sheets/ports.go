package sheets

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound adapters.
type (
	// EntryMirror keeps a spreadsheet copy of ledger entries, one row per
	// entry keyed by entry id.
	EntryMirror interface {
		Upsert(ctx context.Context, e core.LedgerEntry) (rowRef string, err error)
		// Delete clears the row of id from the sheet of year. A missing row
		// is not an error.
		Delete(ctx context.Context, id string, year int) error
	}
)

// Header is the column layout shared by every mirror.
var Header = []string{"ID", "Date", "Period", "Kind", "Category", "Bank", "Payment", "Description", "Amount", "Installment"}

// Row renders e in Header order.
func Row(e core.LedgerEntry) []string {
	installment := ""
	if e.Installment != nil {
		installment = e.Installment.String()
	}
	return []string{
		e.ID,
		e.OccursOn.String(),
		e.PeriodKey(),
		string(e.Kind),
		e.Category.Label(),
		e.Bank,
		e.PaymentMethod.Label(),
		e.Description,
		e.Amount.String(),
		installment,
	}
}
