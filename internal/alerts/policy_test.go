package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumora-health/lumora-backend/internal/ml"
)

func TestPolicyDecide(t *testing.T) {
	policy := NewPolicy(0.7)

	tests := []struct {
		name         string
		level        ml.RiskLevel
		score        float64
		wantAlert    bool
		wantSeverity string
	}{
		{"low never alerts", ml.RiskLow, 0.1, false, ""},
		{"medium never alerts", ml.RiskMedium, 0.65, false, ""},
		{"unknown never alerts", ml.RiskUnknown, 0.5, false, ""},
		{"high with critical score", ml.RiskHigh, 0.95, true, SeverityCritical},
		{"high at critical boundary", ml.RiskHigh, 0.9, true, SeverityCritical},
		{"high with high score", ml.RiskHigh, 0.75, true, SeverityHigh},
		{"high at high boundary", ml.RiskHigh, 0.7, true, SeverityHigh},
		{"high below high boundary", ml.RiskHigh, 0.65, true, SeverityMedium},
		{"critical level alerts", "Critical", 0.99, true, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Decide(tt.level, tt.score)
			assert.Equal(t, tt.wantAlert, got.ShouldAlert)
			assert.Equal(t, tt.wantSeverity, got.Severity)
		})
	}
}

func TestPolicyExceedsThreshold(t *testing.T) {
	policy := NewPolicy(0.7)

	assert.False(t, policy.ExceedsThreshold(0.69))
	assert.True(t, policy.ExceedsThreshold(0.7))
	assert.True(t, policy.ExceedsThreshold(0.95))

	strict := NewPolicy(0.5)
	assert.True(t, strict.ExceedsThreshold(0.6))
}

func TestRecommendationCoversAllLevels(t *testing.T) {
	assert.Contains(t, Recommendation(ml.RiskLow), "healthy habits")
	assert.Contains(t, Recommendation(ml.RiskMedium), "mental health professional")
	assert.Contains(t, Recommendation(ml.RiskHigh), "988")
	assert.Contains(t, Recommendation(ml.RiskUnknown), "Unable to assess")
}

func TestFormatAlertMessage(t *testing.T) {
	msg := FormatAlertMessage(ml.RiskHigh, 0.87, "Jamie Doe")
	assert.Contains(t, msg, "Jamie Doe")
	assert.Contains(t, msg, "High")
	assert.Contains(t, msg, "0.87")
}
