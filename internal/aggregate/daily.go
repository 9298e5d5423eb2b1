package aggregate

import (
	"sort"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/weeks"
)

// DailyLoad is one point of the resting heart rate history: training hours
// stacked by effort plus that morning's RHR, if recorded.
type DailyLoad struct {
	Date       string  `json:"date"`
	GreenHours float64 `json:"greenHours"`
	WhiteHours float64 `json:"whiteHours"`
	RedHours   float64 `json:"redHours"`
	RHR        *int    `json:"rhr"`
}

type dailyAcc struct {
	effort EffortTotals
	rhr    *int
}

func collect(training []domain.TrainingEntry, rhr []domain.RestingHeartRateEntry) map[string]*dailyAcc {
	acc := make(map[string]*dailyAcc)
	get := func(date string) *dailyAcc {
		a, ok := acc[date]
		if !ok {
			a = &dailyAcc{}
			acc[date] = a
		}
		return a
	}
	for _, e := range training {
		d, ok := usable(e)
		if !ok {
			continue
		}
		get(weeks.FormatDate(d)).effort.add(e.Effort, e.DurationMinutes)
	}
	for _, r := range rhr {
		d, err := weeks.ParseDate(r.Date)
		if err != nil || r.BPM <= 0 {
			continue
		}
		bpm := r.BPM
		get(weeks.FormatDate(d)).rhr = &bpm
	}
	return acc
}

func (a *dailyAcc) point(date string) DailyLoad {
	p := DailyLoad{Date: date}
	if a == nil {
		return p
	}
	p.GreenHours = Hours(a.effort.Green)
	p.WhiteHours = Hours(a.effort.White)
	p.RedHours = Hours(a.effort.Red)
	p.RHR = a.rhr
	return p
}

// DailySeries merges training and RHR rows into one point per date that has
// any data, ascending. Used for the all-time trend.
func DailySeries(training []domain.TrainingEntry, rhr []domain.RestingHeartRateEntry) []DailyLoad {
	acc := collect(training, rhr)
	dates := make([]string, 0, len(acc))
	for d := range acc {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DailyLoad, 0, len(dates))
	for _, d := range dates {
		out = append(out, acc[d].point(d))
	}
	return out
}

// DailySeriesRange is DailySeries restricted to r with every day present.
func DailySeriesRange(training []domain.TrainingEntry, rhr []domain.RestingHeartRateEntry, r weeks.Range) []DailyLoad {
	acc := collect(training, rhr)
	var out []DailyLoad
	for _, d := range r.Dates() {
		key := weeks.FormatDate(d)
		out = append(out, acc[key].point(key))
	}
	return out
}

// BodyPoint is one measurement of a body series.
type BodyPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BodySeries splits body rows into ascending height and weight series,
// skipping rows without the respective measurement.
func BodySeries(rows []domain.BodyMetricEntry) (height, weight []BodyPoint) {
	sorted := make([]domain.BodyMetricEntry, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	for _, r := range sorted {
		if r.HeightCm != nil {
			height = append(height, BodyPoint{Date: r.Date, Value: *r.HeightCm})
		}
		if r.WeightKg != nil {
			weight = append(weight, BodyPoint{Date: r.Date, Value: *r.WeightKg})
		}
	}
	return height, weight
}
