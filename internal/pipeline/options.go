package pipeline

import (
	"fmt"
	"strings"

	"github.com/kazilabs/mpesa-statement-converter/internal/parser"
)

// LineEmission selects how a transaction's paid-in and withdrawn amounts
// become ledger lines.
type LineEmission int

const (
	// EmitSplit produces up to two lines per transaction: a positive line
	// for a nonzero paid-in and a negative line for a nonzero withdrawal.
	EmitSplit LineEmission = iota
	// EmitNetted produces at most one line per transaction carrying
	// paid-in minus withdrawal. A materially different ledger semantic;
	// same-row debit and credit collapse into a single figure.
	EmitNetted
)

// DateRangeSource selects where the header's from/to dates come from.
type DateRangeSource int

const (
	// RangeFromMetadata uses the From/To labels in the sheet's metadata row.
	RangeFromMetadata DateRangeSource = iota
	// RangeFromTransactions derives the range from the min/max booking
	// dates, padded by one second on each side so the range strictly
	// contains every transaction timestamp.
	RangeFromTransactions
)

// UnparsedDatePolicy selects what an unresolvable booking date becomes.
type UnparsedDatePolicy int

const (
	// UnparsedDateRaw passes the original cell text through verbatim.
	UnparsedDateRaw UnparsedDatePolicy = iota
	// UnparsedDateBlank leaves the booking date empty.
	UnparsedDateBlank
)

// Options configures one transform. The zero value reproduces the standard
// M-Pesa Kenya behavior: day-first dates, no day/month swap, split
// emission, metadata-sourced date range, raw passthrough for unparseable
// dates. An Options value is read-only once handed to a Pipeline; nothing
// here is ever read from process-global state.
type Options struct {
	// DateOrder disambiguates D/D/YYYY booking dates when both numbers
	// are 12 or less.
	DateOrder parser.DateOrder
	// SwapDayMonthOutput renders booking dates with day and month
	// exchanged. Only for the one downstream environment that needs it;
	// corrupts dates whose day is 12 or less everywhere else.
	SwapDayMonthOutput bool
	// LineEmission selects split or netted line generation.
	LineEmission LineEmission
	// DateRangeSource selects metadata labels or derived min/max dates.
	DateRangeSource DateRangeSource
	// UnparsedDates selects raw passthrough or blank for dates that do
	// not resolve.
	UnparsedDates UnparsedDatePolicy
	// ValidateCurrentMonth logs a diagnostic when a booking date falls
	// outside the current processing month. Never rejects or alters the
	// value; statements legitimately span month boundaries.
	ValidateCurrentMonth bool
	// StrictMonthValidation also compares the year. Only meaningful with
	// ValidateCurrentMonth.
	StrictMonthValidation bool
}

// ParseDateOrder maps a flag/form value to a date order.
func ParseDateOrder(s string) (parser.DateOrder, error) {
	switch strings.ToLower(s) {
	case "", "day", "day-first", "dayfirst":
		return parser.DayFirst, nil
	case "month", "month-first", "monthfirst":
		return parser.MonthFirst, nil
	}
	return parser.DayFirst, fmt.Errorf("unknown date order %q (want day-first or month-first)", s)
}

// ParseLineEmission maps a flag/form value to an emission mode.
func ParseLineEmission(s string) (LineEmission, error) {
	switch strings.ToLower(s) {
	case "", "split":
		return EmitSplit, nil
	case "netted", "net":
		return EmitNetted, nil
	}
	return EmitSplit, fmt.Errorf("unknown line emission %q (want split or netted)", s)
}

// ParseDateRangeSource maps a flag/form value to a range source.
func ParseDateRangeSource(s string) (DateRangeSource, error) {
	switch strings.ToLower(s) {
	case "", "metadata", "labels":
		return RangeFromMetadata, nil
	case "derived", "transactions", "minmax":
		return RangeFromTransactions, nil
	}
	return RangeFromMetadata, fmt.Errorf("unknown date range source %q (want metadata or derived)", s)
}

// ParseUnparsedDatePolicy maps a flag/form value to an unparsed-date policy.
func ParseUnparsedDatePolicy(s string) (UnparsedDatePolicy, error) {
	switch strings.ToLower(s) {
	case "", "raw", "passthrough":
		return UnparsedDateRaw, nil
	case "blank", "empty":
		return UnparsedDateBlank, nil
	}
	return UnparsedDateRaw, fmt.Errorf("unknown unparsed-date policy %q (want raw or blank)", s)
}
