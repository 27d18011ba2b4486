package alerts

import "github.com/lumora-health/lumora-backend/internal/ml"

// Severity of a raised alert
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Decision is the one-shot outcome of the alert policy for a risk result.
// It is derived, never persisted.
type Decision struct {
	ShouldAlert bool   `json:"should_alert"`
	Severity    string `json:"severity,omitempty"`
}

// Policy decides when a scored assessment warrants alerting.
type Policy struct {
	highRiskThreshold float64
}

// NewPolicy creates a policy. threshold gates ExceedsThreshold and is
// configured independently from the classifier's level thresholds.
func NewPolicy(highRiskThreshold float64) *Policy {
	return &Policy{highRiskThreshold: highRiskThreshold}
}

// Decide maps a risk level and score to an alert decision. Only High (and a
// hypothetical Critical) levels alert; when they do, the severity escalates
// with the score.
func (p *Policy) Decide(level ml.RiskLevel, score float64) Decision {
	if level != ml.RiskHigh && level != "Critical" {
		return Decision{ShouldAlert: false}
	}

	severity := SeverityMedium
	switch {
	case score >= 0.9:
		severity = SeverityCritical
	case score >= 0.7:
		severity = SeverityHigh
	}

	return Decision{ShouldAlert: true, Severity: severity}
}

// ExceedsThreshold reports whether a score passes the configured high-risk
// gate, independent of the alert decision above.
func (p *Policy) ExceedsThreshold(score float64) bool {
	return score >= p.highRiskThreshold
}
