package service

import (
	"sort"

	"fieldscope/internal/models"
)

// buildCrossTab builds a field-by-report presence matrix with "X"
// markers, a trailing repetition-count column, and a totals row.
// Reports keep first-appearance order; fields are sorted.
func buildCrossTab(fields []models.FieldOccurrence, key func(models.FieldOccurrence) string) models.CrossTab {
	reports := []string{}
	reportIdx := map[string]int{}
	presence := map[string]map[string]bool{}

	for _, f := range fields {
		if _, ok := reportIdx[f.ReportName]; !ok {
			reportIdx[f.ReportName] = len(reports)
			reports = append(reports, f.ReportName)
		}
		k := key(f)
		if presence[k] == nil {
			presence[k] = map[string]bool{}
		}
		presence[k][f.ReportName] = true
	}

	names := make([]string, 0, len(presence))
	for k := range presence {
		names = append(names, k)
	}
	sort.Strings(names)

	tab := models.CrossTab{
		Reports: reports,
		Totals:  make([]int, len(reports)),
	}
	for _, name := range names {
		row := models.CrossTabRow{
			Field: name,
			Marks: make([]string, len(reports)),
		}
		for report := range presence[name] {
			idx := reportIdx[report]
			row.Marks[idx] = "X"
			row.Repetition++
			tab.Totals[idx]++
		}
		tab.Rows = append(tab.Rows, row)
	}
	return tab
}
