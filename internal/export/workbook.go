package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fieldscope/internal/models"
)

// maxSheetName is the xlsx limit on sheet name length.
const maxSheetName = 31

// Sheet base names, `__`-prefixed like the original workbook output.
const (
	SheetProfile         = "__Quick_Profile"
	SheetColumnProfile   = "__Column_Profile"
	SheetSynonyms        = "__Synonym_Rules"
	SheetFields          = "__Field_Inventory"
	SheetDictionary      = "__Distinct_Fields"
	SheetCrossTabOrig    = "__CrossTab_Original"
	SheetCrossTabHomog   = "__CrossTab_Homogenized"
	SheetRationalization = "__Report_Rationalization"
	SheetJourney         = "__Homogenisation_Transform"
	SheetCollapse        = "__Homogenisation_Collapse"
	SheetUnmatched       = "__Homogenisation_Unmatched"
	SheetEffectiveness   = "__Homogenisation_Rule_Effectiveness"
	SheetConfidence      = "__Homogenisation_Confidence"
)

// Writer builds the downloadable multi-sheet workbook from one
// analysis result plus the session's editable tables.
type Writer struct {
	book *excelize.File
	used map[string]bool
}

// NewWriter creates an empty workbook writer.
func NewWriter() *Writer {
	return &Writer{
		book: excelize.NewFile(),
		used: map[string]bool{},
	}
}

// Build writes every output sheet. When includedOnly is set, the field
// inventory and dictionary sheets carry only include_flag = Y rows.
func (w *Writer) Build(result *models.AnalysisResult, rules []models.SynonymRule, definitions []models.DefinitionEntry, includedOnly bool) error {
	fields := result.Fields
	dictionary := definitions
	if includedOnly {
		fields = filterFields(fields)
		dictionary = filterDefinitions(definitions)
	}

	if err := w.writeProfile(result.Profiles); err != nil {
		return err
	}
	if err := w.writeColumnProfile(result.ColumnProfiles); err != nil {
		return err
	}
	if err := w.writeSynonyms(rules); err != nil {
		return err
	}
	if err := w.writeFields(SheetFields, fields); err != nil {
		return err
	}
	if err := w.writeDictionary(dictionary); err != nil {
		return err
	}
	if err := w.writeCrossTab(SheetCrossTabOrig, result.CrossTabOriginal); err != nil {
		return err
	}
	if err := w.writeCrossTab(SheetCrossTabHomog, result.CrossTabHomogenized); err != nil {
		return err
	}
	if err := w.writeRationalization(result.Rationalization); err != nil {
		return err
	}
	if err := w.writeJourney(result.Fields); err != nil {
		return err
	}
	if err := w.writeCollapse(result.Collapse); err != nil {
		return err
	}
	if err := w.writeFields(SheetUnmatched, result.Unmatched); err != nil {
		return err
	}
	if err := w.writeEffectiveness(result.Effectiveness); err != nil {
		return err
	}
	if err := w.writeConfidence(result.Fields); err != nil {
		return err
	}

	return w.book.DeleteSheet("Sheet1")
}

// WriteTo serializes the workbook.
func (w *Writer) WriteTo(out io.Writer) error {
	return w.book.Write(out)
}

// addSheet creates a sheet under the truncated unique name and returns
// the name actually used.
func (w *Writer) addSheet(base string) (string, error) {
	name := TruncateSheetName(base, w.used)
	w.used[name] = true
	if _, err := w.book.NewSheet(name); err != nil {
		return "", fmt.Errorf("creating sheet %s: %w", name, err)
	}
	return name, nil
}

func (w *Writer) writeRows(base string, header []interface{}, rows [][]interface{}) error {
	name, err := w.addSheet(base)
	if err != nil {
		return err
	}
	if err := w.book.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.book.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeProfile(profiles []models.ProfileRow) error {
	rows := make([][]interface{}, len(profiles))
	for i, p := range profiles {
		rows[i] = []interface{}{p.ReportName, p.FileName, p.SheetName, p.NumRows, p.NumColumns}
	}
	return w.writeRows(SheetProfile,
		[]interface{}{"report_name", "file_name", "sheet_name", "rows", "columns"}, rows)
}

func (w *Writer) writeColumnProfile(profiles []models.ColumnProfile) error {
	rows := make([][]interface{}, len(profiles))
	for i, p := range profiles {
		rows[i] = []interface{}{p.ReportName, p.ColumnName, p.InferredType, p.NonNullRows, p.NullRate, p.DistinctCount, p.UniquenessRatio}
	}
	return w.writeRows(SheetColumnProfile,
		[]interface{}{"report_name", "column_name", "inferred_type", "non_null_rows", "null_rate", "distinct_count", "uniqueness_ratio"}, rows)
}

func (w *Writer) writeSynonyms(rules []models.SynonymRule) error {
	rows := make([][]interface{}, len(rules))
	for i, r := range rules {
		rows[i] = []interface{}{r.Enabled, r.Pattern, r.Replacement}
	}
	return w.writeRows(SheetSynonyms,
		[]interface{}{"enabled", "pattern", "replacement"}, rows)
}

func (w *Writer) writeFields(base string, fields []models.FieldOccurrence) error {
	rows := make([][]interface{}, len(fields))
	for i, f := range fields {
		rows[i] = []interface{}{f.SourceSystem, f.FileName, f.SheetName, f.ReportName,
			f.ColumnOriginal, f.ColumnNormalized, f.ColumnBase, f.ColumnHomogenized,
			f.IncludeFlag, f.BusinessDefinition}
	}
	return w.writeRows(base,
		[]interface{}{"source_system", "file_name", "sheet_name", "report_name",
			"column_original", "column_normalized", "column_base_homogenized",
			"column_homogenized", "include_flag", "business_definition"}, rows)
}

func (w *Writer) writeDictionary(entries []models.DefinitionEntry) error {
	rows := make([][]interface{}, len(entries))
	for i, e := range entries {
		rows[i] = []interface{}{e.ColumnHomogenized, e.IncludeFlag, e.BusinessDefinition}
	}
	return w.writeRows(SheetDictionary,
		[]interface{}{"column_homogenized", "include_flag", "business_definition"}, rows)
}

func (w *Writer) writeCrossTab(base string, tab models.CrossTab) error {
	header := []interface{}{"field"}
	for _, report := range tab.Reports {
		header = append(header, report)
	}
	header = append(header, "repetition_count")

	rows := make([][]interface{}, 0, len(tab.Rows)+1)
	for _, row := range tab.Rows {
		cells := []interface{}{row.Field}
		for _, mark := range row.Marks {
			cells = append(cells, mark)
		}
		cells = append(cells, row.Repetition)
		rows = append(rows, cells)
	}

	totals := []interface{}{"Totals"}
	grand := 0
	for _, t := range tab.Totals {
		totals = append(totals, t)
		grand += t
	}
	totals = append(totals, grand)
	rows = append(rows, totals)

	return w.writeRows(base, header, rows)
}

func (w *Writer) writeRationalization(records []models.RationalizationRecord) error {
	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = []interface{}{r.ReportName, r.TotalFields, r.UniqueFields, r.UniquenessRatio, r.AvgOverlap, r.Recommendation}
	}
	return w.writeRows(SheetRationalization,
		[]interface{}{"report_name", "total_fields", "unique_fields", "uniqueness_ratio", "avg_overlap", "recommendation"}, rows)
}

func (w *Writer) writeJourney(fields []models.FieldOccurrence) error {
	rows := make([][]interface{}, len(fields))
	for i, f := range fields {
		rows[i] = []interface{}{f.ReportName, f.ColumnOriginal, f.ColumnNormalized, f.ColumnBase, f.ColumnHomogenized}
	}
	return w.writeRows(SheetJourney,
		[]interface{}{"report_name", "column_original", "column_normalized", "column_base_homogenized", "column_homogenized"}, rows)
}

func (w *Writer) writeCollapse(rows []models.CollapseRow) error {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{r.ColumnHomogenized, strings.Join(r.SourceVariants, "; "), r.VariantCount}
	}
	return w.writeRows(SheetCollapse,
		[]interface{}{"column_homogenized", "source_variants", "variant_count"}, out)
}

func (w *Writer) writeEffectiveness(rows []models.RuleEffectiveness) error {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		skipped := ""
		if r.Skipped {
			skipped = r.SkipReason
		}
		out[i] = []interface{}{r.Pattern, r.Replacement, r.Enabled, r.MatchedFields, skipped}
	}
	return w.writeRows(SheetEffectiveness,
		[]interface{}{"pattern", "replacement", "enabled", "matched_fields", "skip_reason"}, out)
}

func (w *Writer) writeConfidence(fields []models.FieldOccurrence) error {
	rows := make([][]interface{}, len(fields))
	for i, f := range fields {
		rows[i] = []interface{}{f.ReportName, f.ColumnOriginal, f.ColumnNormalized, f.ColumnBase, f.ColumnHomogenized, f.Confidence}
	}
	return w.writeRows(SheetConfidence,
		[]interface{}{"report_name", "column_original", "column_normalized", "column_base_homogenized", "column_homogenized", "confidence"}, rows)
}

func filterFields(fields []models.FieldOccurrence) []models.FieldOccurrence {
	out := []models.FieldOccurrence{}
	for _, f := range fields {
		if f.IncludeFlag == "Y" {
			out = append(out, f)
		}
	}
	return out
}

func filterDefinitions(entries []models.DefinitionEntry) []models.DefinitionEntry {
	out := []models.DefinitionEntry{}
	for _, e := range entries {
		if e.IncludeFlag == "Y" {
			out = append(out, e)
		}
	}
	return out
}

// TruncateSheetName cuts a sheet name to the xlsx 31-char limit while
// keeping it unique against the names already used.
func TruncateSheetName(base string, used map[string]bool) string {
	name := base
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if !used[name] {
		return name
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf("~%d", i)
		trimmed := name
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		candidate := trimmed + suffix
		if !used[candidate] {
			return candidate
		}
	}
}

// ExportFileName names the download after the source system.
func ExportFileName(sourceSystem string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(sourceSystem), " ", "_")
	return fmt.Sprintf("data_discovery_output_%s.xlsx", slug)
}
