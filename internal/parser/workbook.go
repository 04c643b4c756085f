package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadRows decodes a statement workbook and returns the raw rows of its
// first sheet. Each row is the slice of cell texts excelize produces;
// trailing empty cells are absent, not zero-filled.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
