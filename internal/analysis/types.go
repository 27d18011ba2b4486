package analysis

import "time"

// Sample is one scored assessment as seen by the aggregators: the risk
// probability and when it was recorded.
type Sample struct {
	Score float64
	At    time.Time
}

// Trend values
const (
	TrendImproving        = "improving"
	TrendWorsening        = "worsening"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
	TrendNoData           = "no_data"
)

// Trend compares the two most recent risk scores inside a window.
type Trend struct {
	CurrentRisk      *float64 `json:"current_risk"`
	PreviousRisk     *float64 `json:"previous_risk"`
	Trend            string   `json:"trend"`
	ChangePercentage *float64 `json:"change_percentage"`
	PeriodDays       int      `json:"period_days"`
}

// DailyRisk is one weekday's average risk within a calendar week, as a
// percentage. Risk is nil for days with no samples.
type DailyRisk struct {
	Day  string   `json:"day"`
	Risk *float64 `json:"risk"`
}

// WeeklyAggregate summarizes one Monday-aligned calendar week.
type WeeklyAggregate struct {
	Week        int         `json:"week"`
	WeekStart   string      `json:"week_start"`
	WeekEnd     string      `json:"week_end"`
	DailyRisks  []DailyRisk `json:"daily_risks"`
	AverageRisk float64     `json:"average_risk"`
}
