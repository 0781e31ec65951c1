package ingest

import (
	"testing"

	"fieldscope/internal/models"
)

func TestProfile(t *testing.T) {
	t.Parallel()

	report := models.Report{
		FileName:  "claims.xlsx",
		SheetName: "Q1",
		Name:      "claims.xlsx :: Q1",
		Headers:   []string{"Pol No", "Amount"},
		Rows:      [][]string{{"1", "10.5"}, {"2", "20.0"}},
	}

	row := Profile(report)
	if row.ReportName != "claims.xlsx :: Q1" || row.NumRows != 2 || row.NumColumns != 2 {
		t.Errorf("unexpected profile row: %+v", row)
	}
}

func TestProfileColumns(t *testing.T) {
	t.Parallel()

	report := models.Report{
		Name:    "r",
		Headers: []string{"id", "amount", "when", "note"},
		Rows: [][]string{
			{"1", "10.5", "2024-01-15", "dup"},
			{"2", "20.0", "2024-02-01", "dup"},
			{"3", "", "2024-03-10", ""},
		},
	}

	profiles := ProfileColumns(report)
	if len(profiles) != 4 {
		t.Fatalf("got %d profiles, want 4", len(profiles))
	}

	byName := map[string]models.ColumnProfile{}
	for _, p := range profiles {
		byName[p.ColumnName] = p
	}

	if got := byName["id"].InferredType; got != "int" {
		t.Errorf("id type = %q, want int", got)
	}
	if got := byName["amount"].InferredType; got != "float" {
		t.Errorf("amount type = %q, want float", got)
	}
	if got := byName["when"].InferredType; got != "date" {
		t.Errorf("when type = %q, want date", got)
	}
	if got := byName["note"].InferredType; got != "string" {
		t.Errorf("note type = %q, want string", got)
	}

	id := byName["id"]
	if id.NonNullRows != 3 || id.DistinctCount != 3 || id.UniquenessRatio != 1.0 {
		t.Errorf("unexpected id profile: %+v", id)
	}

	note := byName["note"]
	if note.NonNullRows != 2 || note.DistinctCount != 1 {
		t.Errorf("unexpected note profile: %+v", note)
	}
	if want := 1.0 / 3.0; note.NullRate != want {
		t.Errorf("note null rate = %f, want %f", note.NullRate, want)
	}
}
