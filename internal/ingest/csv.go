package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fieldscope/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses one uploaded CSV file into a Report. Legacy exports
// arrive malformed in two known ways: a UTF-8 BOM prefix, and files
// whose every physical row is wrapped in a single outer quote pair so
// the whole row parses as one column. Both are repaired here.
func ReadCSV(r io.Reader, fileName string) (*models.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	records, err := parseRecords(data, ',')
	if err != nil || singleColumnMisparse(records) {
		if fixed, ferr := parseRecords(data, ';'); ferr == nil && !singleColumnMisparse(fixed) && len(fixed) > 0 && len(fixed[0]) > 1 {
			records = fixed
		} else if resplit, ok := resplitQuoted(records); ok {
			records = resplit
		} else if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", fileName, err)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no rows", fileName)
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	return &models.Report{
		FileName: fileName,
		Name:     fileName,
		Headers:  headers,
		Rows:     records[1:],
	}, nil
}

func parseRecords(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records := [][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// singleColumnMisparse reports whether every row came back as one cell
// still containing a delimiter, the signature of outer-quoted rows.
func singleColumnMisparse(records [][]string) bool {
	if len(records) == 0 {
		return false
	}
	for _, record := range records {
		if len(record) != 1 {
			return false
		}
	}
	return strings.ContainsAny(records[0][0], ",;")
}

// resplitQuoted re-parses the inner text of outer-quoted rows as CSV.
func resplitQuoted(records [][]string) ([][]string, bool) {
	if !singleColumnMisparse(records) {
		return nil, false
	}
	lines := make([]string, len(records))
	for i, record := range records {
		lines[i] = record[0]
	}
	comma := ','
	if !strings.Contains(lines[0], ",") {
		comma = ';'
	}
	fixed, err := parseRecords([]byte(strings.Join(lines, "\n")), comma)
	if err != nil || singleColumnMisparse(fixed) {
		return nil, false
	}
	return fixed, true
}
