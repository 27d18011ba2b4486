package analysis

import "time"

const dateLayout = "2006-01-02"

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// weekAccumulator collects one calendar week's percentage samples with an
// explicit slot per weekday, Monday first.
type weekAccumulator struct {
	start time.Time
	days  [7][]float64
}

// ComputeWeeklyAggregates groups risk scores into Monday-aligned calendar
// weeks. samples must be ordered oldest first; weeks are numbered from 1 in
// order of first appearance. Scores are reported as percentages rounded to
// two decimals; the week average covers only days that have data and is 0
// for weeks with none.
func ComputeWeeklyAggregates(samples []Sample) []WeeklyAggregate {
	weeks := make(map[time.Time]*weekAccumulator)
	var order []time.Time

	for _, s := range samples {
		at := s.At.UTC()
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		start := day.AddDate(0, 0, -(isoWeekday(day) - 1))

		acc, ok := weeks[start]
		if !ok {
			acc = &weekAccumulator{start: start}
			weeks[start] = acc
			order = append(order, start)
		}

		slot := isoWeekday(day) - 1
		acc.days[slot] = append(acc.days[slot], round2(s.Score*100))
	}

	aggregates := make([]WeeklyAggregate, 0, len(order))
	for i, start := range order {
		acc := weeks[start]

		daily := make([]DailyRisk, 0, 7)
		var populated []float64
		for d := 0; d < 7; d++ {
			entry := DailyRisk{Day: weekdayNames[d]}
			if vals := acc.days[d]; len(vals) > 0 {
				avg := round2(mean(vals))
				entry.Risk = &avg
				populated = append(populated, avg)
			}
			daily = append(daily, entry)
		}

		average := 0.0
		if len(populated) > 0 {
			average = round2(mean(populated))
		}

		aggregates = append(aggregates, WeeklyAggregate{
			Week:        i + 1,
			WeekStart:   start.Format(dateLayout),
			WeekEnd:     start.AddDate(0, 0, 6).Format(dateLayout),
			DailyRisks:  daily,
			AverageRisk: average,
		})
	}

	return aggregates
}

// isoWeekday returns 1 for Monday through 7 for Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
