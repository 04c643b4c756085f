package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateOrder controls how an ambiguous D/D/YYYY date is read when both
// numbers could be either day or month.
type DateOrder int

const (
	// DayFirst reads 09/10/2024 as 9 October (the M-Pesa Kenya convention).
	DayFirst DateOrder = iota
	// MonthFirst reads 09/10/2024 as September 10 (US style).
	MonthFirst
)

// excelEpoch is day zero of the Excel serial date system. Excel calls
// 1900-01-01 day 1 and invents 1900-02-29, so serial N lands on
// 1899-12-30 + N days for all post-February-1900 dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	// D/M/YYYY or M/D/YYYY, optional HH:MM[:SS].
	dmyPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
	// YYYY/M/D, optional time. Unambiguous.
	ymdPattern = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
)

// fallbackLayouts are tried last, for values the positional patterns miss.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
	time.RFC1123,
}

// ParseStatementDate resolves a raw date cell to a calendar timestamp.
//
// Resolution order: Excel serial number, then D/M/YYYY (direction per order,
// overridden when one number exceeds 12), then YYYY/M/D, then a set of
// permissive textual layouts. The boolean result is false when nothing
// matched, including the ambiguous case where both positional numbers
// exceed 12.
func ParseStatementDate(val string, order DateOrder) (time.Time, bool) {
	str := strings.TrimSpace(val)
	if str == "" {
		return time.Time{}, false
	}

	// Bare short integers are Excel serial dates, not calendar text.
	if len(str) <= 5 {
		if serial, err := strconv.Atoi(str); err == nil && serial > 0 {
			return excelEpoch.AddDate(0, 0, serial), true
		}
	}

	if m := dmyPattern.FindStringSubmatch(str); m != nil {
		if t, ok := resolveAmbiguous(m, order); ok {
			return t, true
		}
		return time.Time{}, false
	}

	if m := ymdPattern.FindStringSubmatch(str); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, month, day, m[4], m[5], m[6]); ok {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// resolveAmbiguous decides which of the two leading numbers is the day.
// A number above 12 must be the day regardless of the configured order;
// if both are above 12 the value is unparseable.
func resolveAmbiguous(m []string, order DateOrder) (time.Time, bool) {
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	day, month := first, second
	if order == MonthFirst {
		day, month = second, first
	}

	switch {
	case first > 12 && second > 12:
		return time.Time{}, false
	case first > 12:
		day, month = first, second
	case second > 12:
		day, month = second, first
	}

	return makeDate(year, month, day, m[4], m[5], m[6])
}

func makeDate(year, month, day int, hh, mm, ss string) (time.Time, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	sec, _ := strconv.Atoi(ss)
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	// time.Date normalizes impossible dates like Feb 30; reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// bookingDateLayout is the timestamp format the downstream import expects.
const bookingDateLayout = "2006-01-02 15:04:05"

// FormatBookingDate renders a parsed date for the output tables.
//
// swapDayMonth writes the day in the month position and vice versa. One
// downstream environment's locale handling required this; it corrupts any
// date whose day is 12 or less, so it is an explicit option and never the
// default.
func FormatBookingDate(t time.Time, swapDayMonth bool) string {
	if swapDayMonth {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
			t.Year(), t.Day(), int(t.Month()), t.Hour(), t.Minute(), t.Second())
	}
	return t.Format(bookingDateLayout)
}
