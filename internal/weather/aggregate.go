package weather

import (
	"math"
	"time"
)

// MaxForecastDays caps the number of days returned by AggregateDaily.
const MaxForecastDays = 7

// AggregateDaily collapses interval samples into one DailyForecast per UTC calendar day.
// Days keep the order in which they were first seen and only the first MaxForecastDays
// are returned. The condition and timestamp of a day come from its first interval;
// min/max span every interval of that day and are rounded at the end.
func AggregateDaily(intervals []RawForecastInterval) []DailyForecast {
	var (
		order   = make([]string, 0, MaxForecastDays)
		buckets = make(map[string]*DailyForecast)
	)

	for _, it := range intervals {
		day := time.Unix(it.Timestamp, 0).UTC().Format("2006-01-02")

		b, ok := buckets[day]
		if !ok {
			buckets[day] = &DailyForecast{
				Timestamp: it.Timestamp,
				TempMin:   it.TempMin,
				TempMax:   it.TempMax,
				Condition: it.Condition,
			}
			order = append(order, day)
			continue
		}

		b.TempMin = math.Min(b.TempMin, it.TempMin)
		b.TempMax = math.Max(b.TempMax, it.TempMax)
	}

	if len(order) > MaxForecastDays {
		order = order[:MaxForecastDays]
	}

	out := make([]DailyForecast, 0, len(order))
	for _, day := range order {
		b := buckets[day]
		b.TempMin = RoundTemp(b.TempMin)
		b.TempMax = RoundTemp(b.TempMax)
		out = append(out, *b)
	}
	return out
}

// RoundTemp rounds to the nearest whole degree, ties to even.
func RoundTemp(v float64) float64 {
	return math.RoundToEven(v)
}
