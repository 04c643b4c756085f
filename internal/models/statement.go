package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized row from the statement's transaction table.
type Transaction struct {
	// DocumentNumber is the raw first-column cell, used verbatim as both
	// the ledger reference and the footer-row exclusion key.
	DocumentNumber string
	// BookingDate is the parsed booking timestamp; Zero when the raw cell
	// could not be resolved to a calendar date.
	BookingDate time.Time
	// RawDate preserves the original cell text for the raw-passthrough
	// unparsed-date policy.
	RawDate string
	// DateParsed reports whether BookingDate is valid.
	DateParsed bool
	// PaidIn is the credit magnitude, never negative.
	PaidIn decimal.Decimal
	// Withdrawn is the debit magnitude, never negative.
	Withdrawn decimal.Decimal
}

// LedgerLine is one signed monetary movement formatted for the D365FO
// bank-statement-lines import.
type LedgerLine struct {
	LineNumber      int
	BankAccount     string
	StatementID     int
	BookingDate     string
	Amount          decimal.Decimal
	DocumentNumber  string
	ReferenceNumber string
	LineStatus      string
	Reversal        string
}

// StatementHeader is the single summary record for one statement.
type StatementHeader struct {
	StatementID    int
	BankAccount    string
	Currency       string
	EndingBalance  decimal.Decimal
	FromDate       string
	OpeningBalance decimal.Decimal
	ToDate         string
}

// Result bundles the two output datasets of one transform.
type Result struct {
	Header StatementHeader
	Lines  []LedgerLine
}

// Fixed values required by the downstream import.
const (
	BankAccount = "MPESA"
	Currency    = "KES"
	StatementID = 1
	LineStatus  = "Booked"
	NoReversal  = "No"
)
