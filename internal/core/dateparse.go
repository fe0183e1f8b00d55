package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Transactions carry whatever the user typed into the date field, so the
// parser accepts several human formats. Anything else is unparsable: the
// record still counts toward category and mood totals but is excluded from
// day and month buckets.

var fourDigitYear = regexp.MustCompile(`\d{4}`)

// Layouts tried for strings that contain an explicit 4-digit year.
var yearLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseWhen resolves a transaction's free-form date string against an
// explicit "today". The second return is false when the string is
// unparsable.
//
// When the year is omitted ("Nov 4", "11/4") it is inferred: a month after
// the current one is assumed to be from the previous year, anything else
// from the current year. The comparison is month-only, as the original entry
// flow behaved; entries genuinely older than a year are knowingly
// misattributed.
func ParseWhen(raw string, today Date) (Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{}, false
	}

	if fourDigitYear.MatchString(s) {
		for _, layout := range yearLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateOf(t), true
			}
		}
		return Date{}, false
	}

	if d, ok := parseMonthName(s, today); ok {
		return d, true
	}
	if d, ok := parseSlashes(s, today); ok {
		return d, true
	}
	return Date{}, false
}

// parseMonthName handles "<MonthName> <day>", matching on the first three
// letters case-insensitively.
func parseMonthName(s string, today Date) (Date, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Date{}, false
	}
	name := strings.ToLower(fields[0])
	if len(name) < 3 {
		return Date{}, false
	}
	month, ok := monthsByPrefix[name[:3]]
	if !ok {
		return Date{}, false
	}
	day, err := strconv.Atoi(strings.TrimSuffix(fields[1], ","))
	if err != nil {
		return Date{}, false
	}
	year := inferYear(month, today)
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, false
	}
	return NewDate(year, month, day), true
}

// parseSlashes handles "M/D" and "M/D/YY". "M/D/YYYY" never reaches here:
// the 4-digit year branch claims it first.
func parseSlashes(s string, today Date) (Date, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return Date{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || m < 1 || m > 12 {
		return Date{}, false
	}
	month := time.Month(m)
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Date{}, false
	}

	var year int
	if len(parts) == 3 {
		ys := strings.TrimSpace(parts[2])
		yv, err := strconv.Atoi(ys)
		if err != nil || len(ys) != 2 {
			return Date{}, false
		}
		// Two-digit years: 70-99 are 1900s, 00-69 are 2000s.
		if yv >= 70 {
			year = 1900 + yv
		} else {
			year = 2000 + yv
		}
	} else {
		year = inferYear(month, today)
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, false
	}
	return NewDate(year, month, day), true
}

func inferYear(month time.Month, today Date) int {
	if month > today.Month() {
		return today.Year() - 1
	}
	return today.Year()
}
