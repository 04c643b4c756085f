// Package writer encodes the transform result as the two XLSX workbooks
// the D365FO bank-reconciliation import consumes. Column order and names
// are a compatibility surface and must not change.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/kazilabs/mpesa-statement-converter/internal/models"
)

// Sheet names expected by the downstream import entities.
const (
	LinesSheet  = "Bank_statement_lines"
	HeaderSheet = "Bank_statement_header"
)

// LinesColumns is the fixed schema of the lines workbook.
var LinesColumns = []string{
	"LINENUMBER", "BANKACCOUNT", "STATEMENTID", "BOOKINGDATE", "AMOUNT",
	"BANKSTATEMENTTRANSACTIONCODE", "COUNTERAMOUNT", "COUNTERCURRENCY",
	"COUNTEREXCHANGERATE", "CREDITORREFERENCEINFORMATION", "DOCUMENTNUMBER",
	"ENTRYREFERENCE", "INSTRUCTEDAMOUNT", "INSTRUCTEDCURRENCY",
	"INSTRUCTEDEXCHANGERATE", "LINESTATUS", "REFERENCENUMBER",
	"RELATEDBANK", "RELATEDBANKACCOUNT", "REVERSAL", "TRADINGPARTY",
}

// HeaderColumns is the fixed schema of the header workbook.
var HeaderColumns = []string{
	"STATEMENTID", "BANKACCOUNT", "CURRENCY", "ENDINGBALANCE",
	"FROMDATE", "OPENINGBALANCE", "TODATE",
}

// WriteLines writes the lines workbook to out.
func WriteLines(out io.Writer, lines []models.LedgerLine) error {
	f, err := newSheet(LinesSheet, toInterface(LinesColumns))
	if err != nil {
		return err
	}
	defer f.Close()

	for i, line := range lines {
		row := []interface{}{
			line.LineNumber,
			line.BankAccount,
			line.StatementID,
			line.BookingDate,
			line.Amount.InexactFloat64(),
			"", 0, "", 0, "", // transaction code, counter amount/currency/rate, creditor ref
			line.DocumentNumber,
			"", 0, "", 0, // entry ref, instructed amount/currency/rate
			line.LineStatus,
			line.ReferenceNumber,
			"", "", // related bank, related bank account
			line.Reversal,
			"", // trading party
		}
		if err := f.SetSheetRow(LinesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing line %d: %w", line.LineNumber, err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("encoding lines workbook: %w", err)
	}
	return nil
}

// WriteHeader writes the header workbook to out.
func WriteHeader(out io.Writer, h models.StatementHeader) error {
	f, err := newSheet(HeaderSheet, toInterface(HeaderColumns))
	if err != nil {
		return err
	}
	defer f.Close()

	row := []interface{}{
		h.StatementID,
		h.BankAccount,
		h.Currency,
		h.EndingBalance.InexactFloat64(),
		h.FromDate,
		h.OpeningBalance.InexactFloat64(),
		h.ToDate,
	}
	if err := f.SetSheetRow(HeaderSheet, "A2", &row); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("encoding header workbook: %w", err)
	}
	return nil
}

// WriteLinesFile writes the lines workbook to a file at path.
func WriteLinesFile(path string, lines []models.LedgerLine) error {
	return writeFile(path, func(out io.Writer) error { return WriteLines(out, lines) })
}

// WriteHeaderFile writes the header workbook to a file at path.
func WriteHeaderFile(path string, h models.StatementHeader) error {
	return writeFile(path, func(out io.Writer) error { return WriteHeader(out, h) })
}

func newSheet(name string, header []interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet %q: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing %q column header: %w", name, err)
	}
	return f, nil
}

func toInterface(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()
	return write(f)
}
