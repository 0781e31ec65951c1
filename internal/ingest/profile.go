package ingest

import (
	"strconv"
	"strings"
	"time"

	"fieldscope/internal/models"
)

// Profile summarizes one report for the profiling preview.
func Profile(report models.Report) models.ProfileRow {
	return models.ProfileRow{
		ReportName: report.Name,
		FileName:   report.FileName,
		SheetName:  report.SheetName,
		NumRows:    len(report.Rows),
		NumColumns: len(report.Headers),
	}
}

// ProfileColumns computes per-column quality metrics: inferred type,
// null rate, distinct count and uniqueness ratio over the sample rows.
func ProfileColumns(report models.Report) []models.ColumnProfile {
	profiles := make([]models.ColumnProfile, 0, len(report.Headers))
	for colIdx, header := range report.Headers {
		profile := models.ColumnProfile{
			ReportName:   report.Name,
			ColumnName:   header,
			InferredType: inferColumnType(report.Rows, colIdx),
		}

		distinct := make(map[string]bool)
		for _, row := range report.Rows {
			if colIdx >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[colIdx])
			if value == "" || strings.EqualFold(value, "null") || value == "None" {
				continue
			}
			profile.NonNullRows++
			distinct[value] = true
		}

		profile.DistinctCount = len(distinct)
		if total := len(report.Rows); total > 0 {
			profile.NullRate = float64(total-profile.NonNullRows) / float64(total)
		}
		if profile.NonNullRows > 0 {
			profile.UniquenessRatio = float64(profile.DistinctCount) / float64(profile.NonNullRows)
		}

		profiles = append(profiles, profile)
	}
	return profiles
}

func inferColumnType(rows [][]string, colIndex int) string {
	sampleSize := 20
	if len(rows) < sampleSize {
		sampleSize = len(rows)
	}

	isInt := true
	isFloat := true
	isDate := true
	sawValue := false

	for i := 0; i < sampleSize; i++ {
		if colIndex >= len(rows[i]) {
			continue
		}
		val := rows[i][colIndex]
		if val == "" {
			continue
		}
		sawValue = true

		if _, err := strconv.Atoi(val); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			isFloat = false
		}
		if !isDateString(val) {
			isDate = false
		}
	}

	if !sawValue {
		return "string"
	}
	if isInt {
		return "int"
	}
	if isFloat {
		return "float"
	}
	if isDate {
		return "date"
	}
	return "string"
}

func isDateString(val string) bool {
	formats := []string{
		time.RFC3339,
		"2006-01-02",
		"02/01/2006",
		"01/02/2006",
		"2006/01/02",
	}
	for _, f := range formats {
		if _, err := time.Parse(f, val); err == nil {
			return true
		}
	}
	return false
}
