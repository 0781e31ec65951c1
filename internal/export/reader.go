package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadSheet reads every row of one named sheet from an xlsx stream.
// Used to verify exported workbooks round-trip.
func ReadSheet(r io.Reader, sheet string) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer book.Close()

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// SheetNames lists the sheets of an xlsx stream.
func SheetNames(r io.Reader) ([]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer book.Close()
	return book.GetSheetList(), nil
}
