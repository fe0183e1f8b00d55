package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Kind:       Expense,
		Amount:     Money{Cents: -4000},
		Category:   "shopping",
		Mood:       MoodNeutral,
		OccurredOn: "Nov 4",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"bad kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"bad mood", func(tx *Transaction) { tx.Mood = "ecstatic" }, ErrInvalidMood},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalConfigValidate(t *testing.T) {
	today := NewDate(2024, time.November, 1)
	def := DefaultGoalConfig(today)
	if err := def.Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	if def.Target.Cents != 500000 || def.PeriodDays != 30 || !def.StartDate.Equal(today) {
		t.Errorf("unexpected defaults: %+v", def)
	}

	bad := def
	bad.Target = Money{Cents: 0}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("zero target: %v, want ErrInvalidTarget", err)
	}

	bad = def
	bad.PeriodDays = 10
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("period 10: %v, want ErrInvalidPeriod", err)
	}
}

func TestIsBaselineCategory(t *testing.T) {
	for _, name := range []string{"shopping", "Food", " TRANSPORT ", "entertainment"} {
		if !IsBaselineCategory(name) {
			t.Errorf("IsBaselineCategory(%q) = false, want true", name)
		}
	}
	if IsBaselineCategory("subscriptions") {
		t.Error("subscriptions should not be baseline")
	}
}

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"40", 4000, false},
		{"12.346", 1235, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDecimalToCents(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 4000}).String(); got != "40.00" {
		t.Errorf("String = %q", got)
	}
	if got := (Money{Cents: -1234}).String(); got != "-12.34" {
		t.Errorf("String = %q", got)
	}
	if got := (Money{Cents: 5}).String(); got != "0.05" {
		t.Errorf("String = %q", got)
	}
}
