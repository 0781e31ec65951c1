package homogenize

// Confidence labels for a field's transformation journey.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// ScoreConfidence classifies how much of a field's renaming came from
// the fixed rule stages. High: both base and synonym stages changed the
// key. Medium: only the base stage did. Low: the base stage changed
// nothing, whatever the synonym stage did.
func ScoreConfidence(normalized, base, final string) string {
	switch {
	case base != normalized && final != base:
		return ConfidenceHigh
	case base != normalized:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
