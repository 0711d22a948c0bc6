package memory

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
)

func expense(owner string, cents int64, d core.Date) core.LedgerEntry {
	return core.LedgerEntry{
		OwnerID:       owner,
		Kind:          core.KindExpense,
		Amount:        core.Cents(cents),
		Category:      core.CategoryFood,
		Bank:          "Santander",
		PaymentMethod: core.PaymentCredit,
		OccursOn:      d,
	}
}

func TestInsertBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := New()

	bad := []core.LedgerEntry{
		expense("o", 100, core.NewDate(2024, 1, 1)),
		expense("o", 0, core.NewDate(2024, 2, 1)),
	}
	if _, err := s.InsertBatch(ctx, bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	got, _ := s.QueryRange(ctx, "o", core.NewDate(2000, 1, 1), core.NewDate(2100, 1, 1))
	if len(got) != 0 {
		t.Fatalf("expected nothing stored after failed batch, got %d", len(got))
	}

	ids, err := s.InsertBatch(ctx, []core.LedgerEntry{
		expense("o", 100, core.NewDate(2024, 1, 1)),
		expense("o", 200, core.NewDate(2024, 2, 1)),
	})
	if err != nil || len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("unexpected batch result ids=%v err=%v", ids, err)
	}
}

func TestQueriesAreOwnerScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.InsertOne(ctx, expense("o", 300, core.NewDate(2024, 3, 1)))
	s.InsertOne(ctx, expense("o", 100, core.NewDate(2024, 1, 1)))
	s.InsertOne(ctx, expense("x", 999, core.NewDate(2024, 2, 1)))
	s.InsertOne(ctx, expense("o", 101, core.NewDate(2024, 1, 1)))

	got, err := s.QueryRange(ctx, "o", core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := []int64{100, 101, 300}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, e := range got {
		if e.Amount.Cents != want[i] {
			t.Fatalf("position %d: got %d want %d", i, e.Amount.Cents, want[i])
		}
	}

	got, _ = s.QueryByPredicate(ctx, "o", core.Predicate{From: core.NewDate(2024, 2, 1)})
	if len(got) != 1 || got[0].Amount.Cents != 300 {
		t.Fatalf("unexpected predicate result %+v", got)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.InsertOne(ctx, expense("o", 100, core.NewDate(2024, 1, 15)))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	moved := core.NewDate(2024, 5, 2)
	if err := s.UpdateOne(ctx, "o", id, core.EntryPatch{OccursOn: &moved}); err != nil {
		t.Fatalf("update: %v", err)
	}
	e, err := s.Get(ctx, "o", id)
	if err != nil || e.PeriodKey() != "2024-05" {
		t.Fatalf("unexpected entry %+v err=%v", e, err)
	}

	zero := core.Cents(0)
	if err := s.UpdateOne(ctx, "o", id, core.EntryPatch{Amount: &zero}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var nf *core.NotFoundError
	if err := s.UpdateOne(ctx, "x", id, core.EntryPatch{OccursOn: &moved}); !errors.As(err, &nf) {
		t.Fatalf("other owner must not see the entry, got %v", err)
	}

	if err := s.DeleteOne(ctx, "o", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteOne(ctx, "o", id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestOwnerConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	cfg, found, err := s.OwnerConfig(ctx, "o")
	if err != nil || found || cfg.OwnerID != "o" {
		t.Fatalf("unexpected empty config %+v found=%v err=%v", cfg, found, err)
	}
	cfg.Banks = []string{"Santander"}
	if err := s.SaveOwnerConfig(ctx, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg.Banks[0] = "mutated"

	got, found, _ := s.OwnerConfig(ctx, "o")
	if !found || len(got.Banks) != 1 || got.Banks[0] != "Santander" {
		t.Fatalf("unexpected stored config %+v", got)
	}
}

func TestCanceledContextIsStoreUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().InsertOne(ctx, expense("o", 100, core.NewDate(2024, 1, 1)))
	if !errors.Is(err, core.ErrStoreUnavailable) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected store unavailable wrapping context.Canceled, got %v", err)
	}
}
