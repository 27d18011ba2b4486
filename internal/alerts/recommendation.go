package alerts

import (
	"fmt"

	"github.com/lumora-health/lumora-backend/internal/ml"
)

// Recommendation returns human-readable guidance for a risk level.
func Recommendation(level ml.RiskLevel) string {
	switch level {
	case ml.RiskLow:
		return "Your mental health indicators are positive. Continue maintaining " +
			"healthy habits like regular sleep, physical activity, and social connections."
	case ml.RiskMedium:
		return "Your mental health shows some concerning patterns. Consider speaking " +
			"with a mental health professional and focus on stress management, " +
			"better sleep hygiene, and regular exercise."
	case ml.RiskHigh:
		return "Your mental health indicators suggest you may be at high risk. " +
			"We strongly recommend consulting with a mental health professional immediately. " +
			"Contact crisis support if you're having thoughts of self-harm: " +
			"National Suicide Prevention Lifeline: 988"
	default:
		return "Unable to assess risk at this time. Please try again or consult a healthcare professional."
	}
}

// FormatAlertMessage renders the alert body stored with an alert record and
// sent to emergency contacts.
func FormatAlertMessage(level ml.RiskLevel, score float64, userName string) string {
	return fmt.Sprintf(
		"Mental Health Alert for %s\n\nRisk Level: %s\nRisk Score: %.2f\n\nRecommendation: %s",
		userName, level, score, Recommendation(level))
}
