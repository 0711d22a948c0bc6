package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{",5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"92233720368547758.07", 9223372036854775807, true},
		{"92233720368547758.08", 0, false},
		{"184467440737095516.17", 0, false}, // would wrap to 1 cent
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%q expected validation error, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		1234:   "12.34",
		100000: "1000.00",
	}
	for cents, want := range cases {
		if got := Cents(cents).String(); got != want {
			t.Errorf("Cents(%d).String() = %q, want %q", cents, got, want)
		}
	}
}

func TestApplyInterest(t *testing.T) {
	cases := []struct {
		amount int64
		rate   string
		want   int64
	}{
		{10000, "10", 11000},
		{10000, "0", 10000},
		{9999, "2,5", 10249}, // 102.48975 rounds up
		{1, "49", 1},         // 0.0149 rounds down
		{1, "50", 2},         // 0.015 rounds half away from zero
	}
	for _, tc := range cases {
		rate, err := ParseRate(tc.rate)
		if err != nil {
			t.Fatalf("ParseRate(%q): %v", tc.rate, err)
		}
		got, err := ApplyInterest(Cents(tc.amount), rate)
		if err != nil || got.Cents != tc.want {
			t.Errorf("ApplyInterest(%d, %s) = %d (err=%v), want %d", tc.amount, tc.rate, got.Cents, err, tc.want)
		}
	}
}

func TestApplyInterestRejectsOverflow(t *testing.T) {
	huge := decimal.RequireFromString("100000000000000000000")
	if _, err := ApplyInterest(Cents(10000), huge); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseRateRejectsNegative(t *testing.T) {
	if _, err := ParseRate("-1"); !errors.Is(err, ErrInvalidInterestRate) {
		t.Fatalf("expected ErrInvalidInterestRate, got %v", err)
	}
	if r, err := ParseRate("0"); err != nil || !r.Equal(decimal.Zero) {
		t.Fatalf("expected zero rate, got %v (err=%v)", r, err)
	}
}
