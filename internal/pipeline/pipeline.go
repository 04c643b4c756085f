// Package pipeline turns the raw rows of an M-Pesa statement sheet into
// the two datasets the D365FO bank-reconciliation import consumes: an
// ordered list of signed ledger lines and a single header record.
//
// A Pipeline is pure per call: every entity it builds is owned by the call
// and discarded with the result, so concurrent requests can share one
// Pipeline value safely.
package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kazilabs/mpesa-statement-converter/internal/models"
	"github.com/kazilabs/mpesa-statement-converter/internal/parser"
)

// amountPlaces is the rounding applied to every emitted amount. The
// downstream import compares against values rounded this way, so the
// balance sums rounded amounts rather than rounding the sum.
const amountPlaces = 3

// Pipeline runs the statement transform with a fixed set of options.
type Pipeline struct {
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// New creates a Pipeline. The options are captured by value and never
// mutated afterwards.
func New(opts Options, log zerolog.Logger) *Pipeline {
	return &Pipeline{opts: opts, log: log, now: time.Now}
}

// Options returns the configuration the pipeline was built with.
func (p *Pipeline) Options() Options { return p.opts }

// Run transforms the raw sheet rows into the lines and header datasets.
// Cell-level problems are never fatal: unreadable amounts count as zero
// and unreadable dates follow the configured policy.
func (p *Pipeline) Run(rows [][]string) models.Result {
	fromRaw, toRaw := parser.ScanMetadataRange(rows)
	txns := parser.ExtractTransactions(rows, p.opts.DateOrder)

	lines := p.emitLines(txns)

	header := models.StatementHeader{
		StatementID:    models.StatementID,
		BankAccount:    models.BankAccount,
		Currency:       models.Currency,
		EndingBalance:  sumAmounts(lines),
		OpeningBalance: decimal.Zero,
	}
	header.FromDate, header.ToDate = p.dateRange(fromRaw, toRaw, txns)

	return models.Result{Header: header, Lines: lines}
}

// emitLines produces the ledger lines in transaction order. The line
// counter advances only for emitted lines; skipped transactions and
// suppressed zero amounts do not consume a number.
func (p *Pipeline) emitLines(txns []models.Transaction) []models.LedgerLine {
	var lines []models.LedgerLine
	lineNum := 1

	emit := func(txn models.Transaction, amount decimal.Decimal) {
		lines = append(lines, models.LedgerLine{
			LineNumber:      lineNum,
			BankAccount:     models.BankAccount,
			StatementID:     models.StatementID,
			BookingDate:     p.bookingDate(txn),
			Amount:          amount,
			DocumentNumber:  txn.DocumentNumber,
			ReferenceNumber: txn.DocumentNumber,
			LineStatus:      models.LineStatus,
			Reversal:        models.NoReversal,
		})
		lineNum++
	}

	for _, txn := range txns {
		p.checkMonth(txn)

		switch p.opts.LineEmission {
		case EmitNetted:
			net := txn.PaidIn.Sub(txn.Withdrawn.Abs()).Round(amountPlaces)
			if !net.IsZero() {
				emit(txn, net)
			}
		default:
			if !txn.PaidIn.IsZero() {
				emit(txn, txn.PaidIn.Round(amountPlaces))
			}
			if !txn.Withdrawn.IsZero() {
				emit(txn, txn.Withdrawn.Abs().Neg().Round(amountPlaces))
			}
		}
	}
	return lines
}

// bookingDate renders a transaction's booking date per the configured
// unparsed-date policy.
func (p *Pipeline) bookingDate(txn models.Transaction) string {
	if txn.DateParsed {
		return parser.FormatBookingDate(txn.BookingDate, p.opts.SwapDayMonthOutput)
	}
	if p.opts.UnparsedDates == UnparsedDateBlank {
		return ""
	}
	return txn.RawDate
}

// checkMonth emits the optional current-month diagnostic. Diagnostic only:
// the value is never rejected or altered.
func (p *Pipeline) checkMonth(txn models.Transaction) {
	if !p.opts.ValidateCurrentMonth || !txn.DateParsed {
		return
	}
	now := p.now()
	mismatch := txn.BookingDate.Month() != now.Month()
	if p.opts.StrictMonthValidation {
		mismatch = mismatch || txn.BookingDate.Year() != now.Year()
	}
	if mismatch {
		p.log.Warn().
			Str("document", txn.DocumentNumber).
			Str("bookingDate", txn.BookingDate.Format("2006-01-02")).
			Msg("booking date outside current processing month")
	}
}

// dateRange produces the header's from/to dates per the configured source.
func (p *Pipeline) dateRange(fromRaw, toRaw string, txns []models.Transaction) (string, string) {
	if p.opts.DateRangeSource == RangeFromTransactions {
		return p.derivedRange(txns)
	}
	return p.formatRangeDate(fromRaw), p.formatRangeDate(toRaw)
}

// formatRangeDate renders one metadata date the same way booking dates are
// rendered, including the unparsed-date policy.
func (p *Pipeline) formatRangeDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, ok := parser.ParseStatementDate(raw, p.opts.DateOrder)
	if !ok {
		if p.opts.UnparsedDates == UnparsedDateBlank {
			return ""
		}
		return raw
	}
	return parser.FormatBookingDate(t, p.opts.SwapDayMonthOutput)
}

// derivedRange computes min/max booking dates padded by one second each
// way, so the range strictly contains every transaction timestamp even
// when several collide on the same second.
func (p *Pipeline) derivedRange(txns []models.Transaction) (string, string) {
	var min, max time.Time
	for _, txn := range txns {
		if !txn.DateParsed {
			continue
		}
		if min.IsZero() || txn.BookingDate.Before(min) {
			min = txn.BookingDate
		}
		if max.IsZero() || txn.BookingDate.After(max) {
			max = txn.BookingDate
		}
	}
	if min.IsZero() {
		return "", ""
	}
	swap := p.opts.SwapDayMonthOutput
	return parser.FormatBookingDate(min.Add(-time.Second), swap),
		parser.FormatBookingDate(max.Add(time.Second), swap)
}

// sumAmounts totals the already-rounded line amounts. The final rounding
// is a no-op unless accumulation reintroduced extra places.
func sumAmounts(lines []models.LedgerLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total.Round(amountPlaces)
}
