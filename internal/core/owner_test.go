package core

import (
	"errors"
	"testing"
)

func TestOwnerConfigBanks(t *testing.T) {
	var cfg OwnerConfig

	added, err := cfg.AddBank("  Santander ")
	if err != nil || !added {
		t.Fatalf("expected bank to be added, got added=%v err=%v", added, err)
	}
	if added, _ := cfg.AddBank("Santander"); added {
		t.Fatalf("duplicate bank must not be added")
	}
	if added, _ := cfg.AddBank("other"); added {
		t.Fatalf("Other is implicit and must not be stored")
	}
	if _, err := cfg.AddBank("   "); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("expected ErrEmptyBank, got %v", err)
	}

	if !cfg.HasBank("Santander") || !cfg.HasBank(BankOther) {
		t.Fatalf("expected registered bank and Other to be accepted")
	}
	if cfg.HasBank("Itau") {
		t.Fatalf("unregistered bank must be rejected")
	}

	got := cfg.SelectableBanks()
	if len(got) != 2 || got[0] != "Santander" || got[1] != BankOther {
		t.Fatalf("SelectableBanks = %v", got)
	}

	if !cfg.RemoveBank("Santander") || cfg.RemoveBank("Santander") {
		t.Fatalf("RemoveBank should succeed once")
	}
	if len(cfg.Banks) != 0 {
		t.Fatalf("expected no banks, got %v", cfg.Banks)
	}
}

func TestVocabulary(t *testing.T) {
	if got := CategoriesFor(KindIncome); len(got) != 3 || got[2] != CategoryOtherIncome {
		t.Fatalf("income categories = %v", got)
	}
	if CategoryFood.Label() != "Food" {
		t.Fatalf("unexpected label %q", CategoryFood.Label())
	}
	if Category("pets").Label() != "pets" {
		t.Fatalf("unknown categories render by raw id")
	}
	if CategorySalary.ValidFor(KindExpense) || !CategorySalary.ValidFor(KindIncome) {
		t.Fatalf("salary must be income only")
	}
	if !PaymentNotApplicable.ValidFor(KindIncome) || PaymentCredit.ValidFor(KindIncome) {
		t.Fatalf("income must use n/a")
	}
}
