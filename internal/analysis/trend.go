package analysis

import "math"

// maxTrendSamples caps how many in-window results feed the trend comparison.
const maxTrendSamples = 100

// ComputeTrend derives a short-term trend from the user's recent risk scores.
// samples must be ordered newest first; only the first maxTrendSamples are
// considered. The comparison is always current vs. previous result.
func ComputeTrend(samples []Sample, periodDays int) Trend {
	if len(samples) > maxTrendSamples {
		samples = samples[:maxTrendSamples]
	}

	trend := Trend{PeriodDays: periodDays}

	if len(samples) == 0 {
		trend.Trend = TrendNoData
		return trend
	}

	current := samples[0].Score
	trend.CurrentRisk = &current

	if len(samples) < 2 {
		trend.Trend = TrendInsufficientData
		return trend
	}

	previous := samples[1].Score
	trend.PreviousRisk = &previous

	if previous > 0 {
		change := (current - previous) / previous * 100
		trend.ChangePercentage = &change

		switch {
		case change < -10:
			trend.Trend = TrendImproving
		case change > 10:
			trend.Trend = TrendWorsening
		default:
			trend.Trend = TrendStable
		}
		return trend
	}

	// A zero previous score has no meaningful percentage change.
	trend.Trend = TrendStable
	return trend
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
