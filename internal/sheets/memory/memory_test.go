package memory

import (
	"context"
	"testing"

	"ledger/internal/core"
)

func entry(id string, d core.Date, cents int64) core.LedgerEntry {
	return core.LedgerEntry{
		ID: id, OwnerID: "o", Kind: core.KindExpense, Amount: core.Cents(cents),
		Category: core.CategoryFood, Bank: "Itau", PaymentMethod: core.PaymentCash, OccursOn: d,
	}
}

func TestMirrorUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	m := New()

	if _, err := m.Upsert(ctx, entry("a", core.NewDate(2024, 5, 1), 100)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := m.Upsert(ctx, entry("b", core.NewDate(2024, 6, 1), 200)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	ref, err := m.Upsert(ctx, entry("a", core.NewDate(2024, 5, 2), 150))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if ref != "mem:2024:1" {
		t.Errorf("ref = %q, want existing row", ref)
	}

	rows := m.Rows(2024)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "2024-05-02" || rows[0][8] != "1.50" {
		t.Errorf("row not replaced: %v", rows[0])
	}

	if _, err := m.Upsert(ctx, entry("a", core.NewDate(2025, 1, 2), 150)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := len(m.Rows(2024)); got != 1 {
		t.Errorf("entry moved to 2025 should leave 1 row in 2024, got %d", got)
	}

	if err := m.Delete(ctx, "b", 2024); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Delete(ctx, "missing", 2024); err != nil {
		t.Fatalf("deleting a missing row should succeed: %v", err)
	}
	if got := len(m.Rows(2024)); got != 0 {
		t.Errorf("expected empty 2024 sheet, got %d rows", got)
	}
}

func TestMirrorRejectsEntryWithoutID(t *testing.T) {
	if _, err := New().Upsert(context.Background(), entry("", core.NewDate(2024, 1, 1), 1)); err == nil {
		t.Fatal("expected error for entry without id")
	}
}
