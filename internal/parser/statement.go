package parser

import (
	"strings"

	"github.com/kazilabs/mpesa-statement-converter/internal/models"
)

// M-Pesa statement layout. The export always places the transaction table
// at the same row and column offsets; only the metadata labels move around.
const (
	metadataRowIndex    = 3 // row containing the "From" / "To" labels
	transactionStartRow = 7 // first transaction row
	colDocument         = 0
	colBookingDate      = 1
	colPaidIn           = 5
	colWithdrawn        = 6
)

// Footer and subtotal rows carry these words in the document-number column.
var footerMarkers = []string{"total", "summary"}

// ScanMetadataRange finds the statement's stated from/to dates.
//
// The metadata row is scanned cell by cell rather than read at fixed
// columns: the label position shifts between statement exports, but the
// date value always sits in the cell immediately after its label. Missing
// labels yield empty strings.
func ScanMetadataRange(rows [][]string) (fromRaw, toRaw string) {
	if len(rows) <= metadataRowIndex {
		return "", ""
	}
	row := rows[metadataRowIndex]
	for j, cell := range row {
		if j+1 >= len(row) || row[j+1] == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "from":
			fromRaw = row[j+1]
		case "to":
			toRaw = row[j+1]
		}
	}
	return fromRaw, toRaw
}

// ExtractTransactions normalizes the transaction table into typed records.
//
// Rows with an empty document-number cell are blank separators; rows whose
// document number mentions a footer marker are subtotals. Both are skipped
// without consuming a transaction.
func ExtractTransactions(rows [][]string, order DateOrder) []models.Transaction {
	var txns []models.Transaction
	for i := transactionStartRow; i < len(rows); i++ {
		row := rows[i]
		if txn, ok := parseRow(row, order); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

func parseRow(row []string, order DateOrder) (models.Transaction, bool) {
	doc := cellAt(row, colDocument)
	if strings.TrimSpace(doc) == "" {
		return models.Transaction{}, false
	}
	lower := strings.ToLower(doc)
	for _, marker := range footerMarkers {
		if strings.Contains(lower, marker) {
			return models.Transaction{}, false
		}
	}

	rawDate := cellAt(row, colBookingDate)
	bookingDate, parsed := ParseStatementDate(rawDate, order)

	return models.Transaction{
		DocumentNumber: doc,
		BookingDate:    bookingDate,
		RawDate:        rawDate,
		DateParsed:     parsed,
		PaidIn:         ParseAmount(cellAt(row, colPaidIn)),
		Withdrawn:      ParseAmount(cellAt(row, colWithdrawn)),
	}, true
}

// cellAt returns the cell at index i, or "" when the row is too short.
// excelize trims trailing empty cells, so short rows are routine.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
