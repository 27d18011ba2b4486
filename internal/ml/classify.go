package ml

// RiskLevel is the discrete depression-risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"

	// RiskUnknown marks the neutral fallback when inference fails. It is
	// returned to callers but never persisted as a risk result.
	RiskUnknown RiskLevel = "Unknown"
)

// Classification thresholds, inclusive-lower / exclusive-upper.
const (
	mediumRiskThreshold = 0.4
	highRiskThreshold   = 0.7
)

// Classify maps a risk probability to a discrete level. Pure, total and
// monotonic over [0,1].
func Classify(score float64) RiskLevel {
	switch {
	case score < mediumRiskThreshold:
		return RiskLow
	case score < highRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}
