package parser

import (
	"testing"
	"time"
)

func TestParseStatementDateSerial(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		// Serial 44562 is 2022-01-01 in the Excel 1900 date system.
		{"44562", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"44567", time.Date(2022, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"367", time.Date(1901, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseStatementDate(tt.input, DayFirst)
		if !ok {
			t.Fatalf("ParseStatementDate(%q): not parsed", tt.input)
		}
		if !got.Equal(tt.expected) {
			t.Errorf("ParseStatementDate(%q): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseStatementDateAmbiguous(t *testing.T) {
	tests := []struct {
		input    string
		order    DateOrder
		expected time.Time
		ok       bool
	}{
		// Both numbers <= 12: the configured order wins.
		{"09/10/2024", DayFirst, time.Date(2024, 10, 9, 0, 0, 0, 0, time.UTC), true},
		{"09/10/2024", MonthFirst, time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), true},
		// First number > 12: must be the day, regardless of order.
		{"15/03/2024", MonthFirst, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/03/2024", DayFirst, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		// Second number > 12: must be the day, regardless of order.
		{"10/15/2024", DayFirst, time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC), true},
		// Both > 12: unparseable.
		{"13/14/2024", DayFirst, time.Time{}, false},
		// Dash separators and time components.
		{"15-03-2024 08:15", DayFirst, time.Date(2024, 3, 15, 8, 15, 0, 0, time.UTC), true},
		{"09/10/2024 14:30:45", DayFirst, time.Date(2024, 10, 9, 14, 30, 45, 0, time.UTC), true},
		// Impossible calendar dates are rejected, not normalized.
		{"30/02/2024", DayFirst, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseStatementDate(tt.input, tt.order)
			if ok != tt.ok {
				t.Fatalf("ParseStatementDate(%q): ok=%v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.expected) {
				t.Errorf("ParseStatementDate(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseStatementDateISO(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-10-09", time.Date(2024, 10, 9, 0, 0, 0, 0, time.UTC)},
		{"2024-10-09 14:30:45", time.Date(2024, 10, 9, 14, 30, 45, 0, time.UTC)},
		{"2024/3/5 7:05", time.Date(2024, 3, 5, 7, 5, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseStatementDate(tt.input, DayFirst)
		if !ok {
			t.Fatalf("ParseStatementDate(%q): not parsed", tt.input)
		}
		if !got.Equal(tt.expected) {
			t.Errorf("ParseStatementDate(%q): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseStatementDateFallback(t *testing.T) {
	got, ok := ParseStatementDate("15 Mar 2024", DayFirst)
	if !ok {
		t.Fatal("textual date not parsed")
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, ok := ParseStatementDate("invalid-date", DayFirst); ok {
		t.Error("expected invalid-date to be unparseable")
	}
	if _, ok := ParseStatementDate("", DayFirst); ok {
		t.Error("expected empty string to be unparseable")
	}
}

func TestFormatBookingDate(t *testing.T) {
	d := time.Date(2024, 3, 15, 8, 5, 9, 0, time.UTC)

	if got := FormatBookingDate(d, false); got != "2024-03-15 08:05:09" {
		t.Errorf("got %q", got)
	}
	// Swapped output writes the day in the month position.
	if got := FormatBookingDate(d, true); got != "2024-15-03 08:05:09" {
		t.Errorf("swapped: got %q", got)
	}
}

func TestDateRoundTrip(t *testing.T) {
	// Formatting a parsed date and re-parsing it through the ISO branch
	// must yield the same timestamp.
	orig, ok := ParseStatementDate("15/03/2024 14:30:45", DayFirst)
	if !ok {
		t.Fatal("seed date not parsed")
	}
	rendered := FormatBookingDate(orig, false)
	back, ok := ParseStatementDate(rendered, DayFirst)
	if !ok {
		t.Fatalf("rendered date %q not parsed", rendered)
	}
	if !back.Equal(orig) {
		t.Errorf("round trip changed timestamp: %v -> %q -> %v", orig, rendered, back)
	}
}
