package models

// Recommendation labels produced by the rationalization scorer.
const (
	RecommendKeep   = "Keep"
	RecommendMerge  = "Merge"
	RecommendReview = "Review"
)

// RationalizationRecord scores one report's field set for redundancy
// against every other report in the session.
type RationalizationRecord struct {
	ReportName      string  `json:"report_name"`
	TotalFields     int     `json:"total_fields"`
	UniqueFields    int     `json:"unique_fields"`
	UniquenessRatio float64 `json:"uniqueness_ratio"`
	AvgOverlap      float64 `json:"avg_overlap"`
	Recommendation  string  `json:"recommendation"`
}
