package rationalize

import (
	"testing"

	"fieldscope/internal/models"
)

func occurrences(report string, fields ...string) []models.FieldOccurrence {
	out := make([]models.FieldOccurrence, len(fields))
	for i, f := range fields {
		out[i] = models.FieldOccurrence{ReportName: report, ColumnHomogenized: f}
	}
	return out
}

func recordFor(t *testing.T, records []models.RationalizationRecord, report string) models.RationalizationRecord {
	t.Helper()
	for _, r := range records {
		if r.ReportName == report {
			return r
		}
	}
	t.Fatalf("no record for report %q in %+v", report, records)
	return models.RationalizationRecord{}
}

func TestScoreIdenticalReports(t *testing.T) {
	t.Parallel()

	fields := append(occurrences("r1", "a", "b", "c"), occurrences("r2", "a", "b", "c")...)
	records := NewScorer(DefaultThresholds()).Score(fields)

	for _, name := range []string{"r1", "r2"} {
		rec := recordFor(t, records, name)
		if rec.UniquenessRatio != 0.0 {
			t.Errorf("%s uniqueness = %f, want 0", name, rec.UniquenessRatio)
		}
		if rec.AvgOverlap != 1.0 {
			t.Errorf("%s overlap = %f, want 1", name, rec.AvgOverlap)
		}
		if rec.Recommendation != models.RecommendMerge {
			t.Errorf("%s recommendation = %q, want Merge", name, rec.Recommendation)
		}
	}
}

func TestScoreDisjointReports(t *testing.T) {
	t.Parallel()

	fields := append(occurrences("r1", "a", "b"), occurrences("r2", "c", "d")...)
	records := NewScorer(DefaultThresholds()).Score(fields)

	for _, name := range []string{"r1", "r2"} {
		rec := recordFor(t, records, name)
		if rec.UniquenessRatio != 1.0 {
			t.Errorf("%s uniqueness = %f, want 1", name, rec.UniquenessRatio)
		}
		if rec.AvgOverlap != 0.0 {
			t.Errorf("%s overlap = %f, want 0", name, rec.AvgOverlap)
		}
		if rec.Recommendation != models.RecommendKeep {
			t.Errorf("%s recommendation = %q, want Keep", name, rec.Recommendation)
		}
	}
}

func TestScoreSingleReport(t *testing.T) {
	t.Parallel()

	records := NewScorer(DefaultThresholds()).Score(occurrences("solo", "a", "b", "c"))
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.TotalFields != 3 || rec.UniqueFields != 3 {
		t.Errorf("totals = %d/%d, want 3/3", rec.TotalFields, rec.UniqueFields)
	}
	if rec.UniquenessRatio != 1.0 || rec.AvgOverlap != 0.0 {
		t.Errorf("ratios = %f/%f, want 1/0", rec.UniquenessRatio, rec.AvgOverlap)
	}
	if rec.Recommendation != models.RecommendKeep {
		t.Errorf("recommendation = %q, want Keep", rec.Recommendation)
	}
}

func TestScoreEmptyFieldSet(t *testing.T) {
	t.Parallel()

	// An occurrence with no homogenized key registers the report but
	// contributes nothing to its field set.
	fields := append(
		[]models.FieldOccurrence{{ReportName: "empty", ColumnHomogenized: ""}},
		occurrences("full", "a", "b")...)
	records := NewScorer(DefaultThresholds()).Score(fields)

	rec := recordFor(t, records, "empty")
	if rec.TotalFields != 0 {
		t.Errorf("total = %d, want 0", rec.TotalFields)
	}
	if rec.UniquenessRatio != 0.0 {
		t.Errorf("uniqueness = %f, want 0", rec.UniquenessRatio)
	}
	if rec.Recommendation != models.RecommendReview {
		t.Errorf("recommendation = %q, want Review", rec.Recommendation)
	}
}

func TestScoreOrdering(t *testing.T) {
	t.Parallel()

	// "keep" holds two fields of its own on top of the shared trio, so
	// its uniqueness clears the keep threshold. m1 and m2 are identical
	// and overlap keep at 3/5, holding their average overlap at 0.8.
	fields := occurrences("keep", "a", "b", "c", "x", "y")
	fields = append(fields, occurrences("m1", "a", "b", "c")...)
	fields = append(fields, occurrences("m2", "a", "b", "c")...)

	records := NewScorer(DefaultThresholds()).Score(fields)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	wantOrder := []string{models.RecommendKeep, models.RecommendMerge, models.RecommendMerge}
	for i, want := range wantOrder {
		if records[i].Recommendation != want {
			t.Errorf("records[%d].Recommendation = %q, want %q", i, records[i].Recommendation, want)
		}
	}
}

func TestConfigurableThresholds(t *testing.T) {
	t.Parallel()

	// Raising the keep threshold above 1.0 pushes disjoint reports with
	// low overlap to Review.
	scorer := NewScorer(Thresholds{KeepUniqueness: 1.1, MergeOverlap: 0.7})
	fields := append(occurrences("r1", "a"), occurrences("r2", "b")...)
	for _, rec := range scorer.Score(fields) {
		if rec.Recommendation != models.RecommendReview {
			t.Errorf("%s recommendation = %q, want Review", rec.ReportName, rec.Recommendation)
		}
	}
}
