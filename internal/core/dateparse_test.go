package core

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	today := NewDate(2024, time.November, 17)

	tests := []struct {
		name string
		raw  string
		want Date
		ok   bool
	}{
		{
			name: "month name, same month",
			raw:  "Nov 4",
			want: NewDate(2024, time.November, 4),
			ok:   true,
		},
		{
			name: "month name, earlier month keeps current year",
			raw:  "Jan 15",
			want: NewDate(2024, time.January, 15),
			ok:   true,
		},
		{
			name: "month name after current month rolls back a year",
			raw:  "Dec 25",
			want: NewDate(2023, time.December, 25),
			ok:   true,
		},
		{
			name: "month name case insensitive",
			raw:  "november 4",
			want: NewDate(2024, time.November, 4),
			ok:   true,
		},
		{
			name: "slash without year",
			raw:  "10/31",
			want: NewDate(2024, time.October, 31),
			ok:   true,
		},
		{
			name: "slash without year, future month rolls back",
			raw:  "12/5",
			want: NewDate(2023, time.December, 5),
			ok:   true,
		},
		{
			name: "slash with two digit year maps to 1900s",
			raw:  "3/5/99",
			want: NewDate(1999, time.March, 5),
			ok:   true,
		},
		{
			name: "slash with two digit year maps to 2000s",
			raw:  "3/5/01",
			want: NewDate(2001, time.March, 5),
			ok:   true,
		},
		{
			name: "iso date with explicit year",
			raw:  "2024-07-04",
			want: NewDate(2024, time.July, 4),
			ok:   true,
		},
		{
			name: "slash with four digit year",
			raw:  "7/4/2024",
			want: NewDate(2024, time.July, 4),
			ok:   true,
		},
		{
			name: "month name with explicit year",
			raw:  "Nov 4, 2023",
			want: NewDate(2023, time.November, 4),
			ok:   true,
		},
		{
			name: "free text is unparsable",
			raw:  "sometime last week",
			ok:   false,
		},
		{
			name: "empty string",
			raw:  "",
			ok:   false,
		},
		{
			name: "day out of range",
			raw:  "Feb 30",
			ok:   false,
		},
		{
			name: "month out of range",
			raw:  "13/2",
			ok:   false,
		},
		{
			name: "garbage with four digit number",
			raw:  "order 1234 pending",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWhen(tt.raw, today)
			if ok != tt.ok {
				t.Fatalf("ParseWhen(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseWhen(%q) = %v, want %v", tt.raw, got.Time, tt.want.Time)
			}
		})
	}
}

func TestParseWhenDeterministic(t *testing.T) {
	// Same input and same "today" must always resolve identically; the
	// parser never reads the wall clock.
	today := NewDate(2030, time.March, 2)
	first, ok1 := ParseWhen("Nov 4", today)
	second, ok2 := ParseWhen("Nov 4", today)
	if !ok1 || !ok2 || !first.Equal(second) {
		t.Errorf("ParseWhen not deterministic: %v/%v vs %v/%v", first.Time, ok1, second.Time, ok2)
	}
	if first.Year() != 2029 {
		t.Errorf("November after March should infer previous year, got %d", first.Year())
	}
}
