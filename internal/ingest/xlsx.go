package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fieldscope/internal/models"
)

// ReadWorkbook parses an uploaded xlsx file. Every sheet with a header
// row becomes an independent report named "file :: sheet". Unreadable or
// empty sheets turn into warnings, not errors; the error return fires
// only when the workbook itself cannot be opened.
func ReadWorkbook(r io.Reader, fileName string) ([]models.Report, []string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", fileName, err)
	}
	defer book.Close()

	reports := []models.Report{}
	warnings := []string{}

	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: sheet %q unreadable: %v", fileName, sheet, err))
			continue
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: sheet %q has no header row", fileName, sheet))
			continue
		}

		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = strings.TrimSpace(h)
		}

		reports = append(reports, models.Report{
			FileName:  fileName,
			SheetName: sheet,
			Name:      ReportName(fileName, sheet),
			Headers:   headers,
			Rows:      rows[1:],
		})
	}

	return reports, warnings, nil
}

// ReportName builds the composite report identity for a workbook sheet.
// Plain CSV reports use the bare file name.
func ReportName(fileName, sheetName string) string {
	if sheetName == "" {
		return fileName
	}
	return fileName + " :: " + sheetName
}
