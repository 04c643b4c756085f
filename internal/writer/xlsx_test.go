package writer

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kazilabs/mpesa-statement-converter/internal/models"
)

func readBack(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWriteLines(t *testing.T) {
	lines := []models.LedgerLine{
		{
			LineNumber:      1,
			BankAccount:     models.BankAccount,
			StatementID:     models.StatementID,
			BookingDate:     "2024-03-15 00:00:00",
			Amount:          decimal.NewFromInt(1000),
			DocumentNumber:  "TXN001",
			ReferenceNumber: "TXN001",
			LineStatus:      models.LineStatus,
			Reversal:        models.NoReversal,
		},
		{
			LineNumber:      2,
			BankAccount:     models.BankAccount,
			StatementID:     models.StatementID,
			BookingDate:     "2024-03-16 00:00:00",
			Amount:          decimal.NewFromFloat(-250.75),
			DocumentNumber:  "TXN002",
			ReferenceNumber: "TXN002",
			LineStatus:      models.LineStatus,
			Reversal:        models.NoReversal,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, lines))

	rows := readBack(t, &buf, LinesSheet)
	require.Len(t, rows, 3)
	assert.Equal(t, LinesColumns, rows[0])

	// GetRows trims trailing empty cells, so the data row may be shorter
	// than the schema; REVERSAL at index 19 is the last populated column.
	first := rows[1]
	require.GreaterOrEqual(t, len(first), 20)
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "MPESA", first[1])
	assert.Equal(t, "1", first[2])
	assert.Equal(t, "2024-03-15 00:00:00", first[3])
	assert.Equal(t, "1000", first[4])
	assert.Equal(t, "TXN001", first[10])
	assert.Equal(t, "Booked", first[15])
	assert.Equal(t, "TXN001", first[16])
	assert.Equal(t, "No", first[19])

	second := rows[2]
	assert.Equal(t, "2", second[0])
	assert.Equal(t, "-250.75", second[4])
}

func TestWriteLinesEmpty(t *testing.T) {
	// No transactions still produces a workbook with the schema row, so
	// the downstream import sees a valid, empty statement.
	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, nil))

	rows := readBack(t, &buf, LinesSheet)
	require.Len(t, rows, 1)
	assert.Equal(t, LinesColumns, rows[0])
}

func TestWriteHeader(t *testing.T) {
	h := models.StatementHeader{
		StatementID:    models.StatementID,
		BankAccount:    models.BankAccount,
		Currency:       models.Currency,
		EndingBalance:  decimal.NewFromFloat(749.25),
		FromDate:       "2024-03-01 00:00:00",
		OpeningBalance: decimal.Zero,
		ToDate:         "2024-03-31 00:00:00",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	rows := readBack(t, &buf, HeaderSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, HeaderColumns, rows[0])
	assert.Equal(t, []string{
		"1", "MPESA", "KES", "749.25", "2024-03-01 00:00:00", "0", "2024-03-31 00:00:00",
	}, rows[1])
}
