package rationalize

import (
	"sort"

	"fieldscope/internal/models"
)

// Thresholds tune the recommendation policy. Heuristic constants, kept
// configurable rather than derived.
type Thresholds struct {
	KeepUniqueness float64 `yaml:"keep_uniqueness" json:"keep_uniqueness"`
	MergeOverlap   float64 `yaml:"merge_overlap" json:"merge_overlap"`
}

// DefaultThresholds returns the shipped recommendation policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		KeepUniqueness: 0.35,
		MergeOverlap:   0.70,
	}
}

// Scorer computes per-report redundancy statistics from field
// occurrences.
type Scorer struct {
	thresholds Thresholds
}

// NewScorer creates a scorer with the given policy thresholds.
func NewScorer(thresholds Thresholds) *Scorer {
	return &Scorer{thresholds: thresholds}
}

// Score builds one record per report: distinct homogenized field count,
// count of fields appearing in that report only, uniqueness ratio, and
// mean pairwise Jaccard overlap with every other report. Records come
// back grouped Keep < Merge < Review, then by overlap descending, then
// by uniqueness ascending.
func (s *Scorer) Score(fields []models.FieldOccurrence) []models.RationalizationRecord {
	reportFields := make(map[string]map[string]bool)
	reportOrder := []string{}
	for _, f := range fields {
		set, ok := reportFields[f.ReportName]
		if !ok {
			set = make(map[string]bool)
			reportFields[f.ReportName] = set
			reportOrder = append(reportOrder, f.ReportName)
		}
		if f.ColumnHomogenized != "" {
			set[f.ColumnHomogenized] = true
		}
	}

	// How many distinct reports carry each homogenized key.
	fieldReports := make(map[string]int)
	for _, set := range reportFields {
		for key := range set {
			fieldReports[key]++
		}
	}

	records := make([]models.RationalizationRecord, 0, len(reportOrder))
	for _, report := range reportOrder {
		set := reportFields[report]

		total := len(set)
		unique := 0
		for key := range set {
			if fieldReports[key] == 1 {
				unique++
			}
		}

		uniquenessRatio := 0.0
		if total > 0 {
			uniquenessRatio = float64(unique) / float64(total)
		}

		avgOverlap := 0.0
		others := 0
		for _, other := range reportOrder {
			if other == report {
				continue
			}
			avgOverlap += jaccard(set, reportFields[other])
			others++
		}
		if others > 0 {
			avgOverlap /= float64(others)
		}

		records = append(records, models.RationalizationRecord{
			ReportName:      report,
			TotalFields:     total,
			UniqueFields:    unique,
			UniquenessRatio: uniquenessRatio,
			AvgOverlap:      avgOverlap,
			Recommendation:  s.recommend(total, uniquenessRatio, avgOverlap),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Recommendation != records[j].Recommendation {
			return records[i].Recommendation < records[j].Recommendation
		}
		if records[i].AvgOverlap != records[j].AvgOverlap {
			return records[i].AvgOverlap > records[j].AvgOverlap
		}
		return records[i].UniquenessRatio < records[j].UniquenessRatio
	})
	return records
}

// recommend applies the policy in fixed order: empty reports always go
// to review, high uniqueness wins over high overlap.
func (s *Scorer) recommend(total int, uniquenessRatio, avgOverlap float64) string {
	switch {
	case total == 0:
		return models.RecommendReview
	case uniquenessRatio >= s.thresholds.KeepUniqueness:
		return models.RecommendKeep
	case avgOverlap >= s.thresholds.MergeOverlap:
		return models.RecommendMerge
	default:
		return models.RecommendReview
	}
}

// jaccard computes |a ∩ b| / |a ∪ b|, zero when both sets are empty.
func jaccard(a, b map[string]bool) float64 {
	intersection := 0
	for key := range a {
		if b[key] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
