// Package aggregate turns flat training rows into the buckets every chart and
// table renders. All functions are pure and order-independent.
package aggregate

import (
	"sort"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/weeks"
)

// CategoryTotals are minutes per coarse session type.
type CategoryTotals struct {
	Swim  int `json:"swim"`
	Land  int `json:"land"`
	Other int `json:"other"`
	Total int `json:"total"`
}

// EffortTotals are minutes per effort tag.
type EffortTotals struct {
	Green int `json:"green"`
	White int `json:"white"`
	Red   int `json:"red"`
}

// Sum is the total over all three tags.
func (e EffortTotals) Sum() int { return e.Green + e.White + e.Red }

// Day is one column of the Monday..Sunday breakdown.
type Day struct {
	Date  string `json:"date"`
	Label string `json:"dayLabel"`
	CategoryTotals
	EffortTotals
}

// Week is one bar of the multi-week breakdown.
type Week struct {
	WeekStart string `json:"weekStart"`
	Label     string `json:"weekLabel"`
	CategoryTotals
	EffortTotals
}

// DayLabels are the axis labels of PerDayBreakdown, Monday first.
var DayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// usable reports whether e has a parseable date and a positive duration;
// anything else is an incomplete record and is skipped.
func usable(e domain.TrainingEntry) (time.Time, bool) {
	if e.DurationMinutes <= 0 {
		return time.Time{}, false
	}
	d, err := weeks.ParseDate(e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (c *CategoryTotals) add(category domain.Category, minutes int) {
	switch domain.ParseCategory(string(category)) {
	case domain.BucketSwim:
		c.Swim += minutes
	case domain.BucketLand:
		c.Land += minutes
	default:
		c.Other += minutes
	}
	c.Total += minutes
}

func (e *EffortTotals) add(effort domain.Effort, minutes int) {
	switch domain.ParseEffort(string(effort)) {
	case domain.EffortGreen:
		e.Green += minutes
	case domain.EffortRed:
		e.Red += minutes
	default:
		e.White += minutes
	}
}

// TotalsByCategory sums minutes into swim, land and other.
func TotalsByCategory(entries []domain.TrainingEntry) CategoryTotals {
	var out CategoryTotals
	for _, e := range entries {
		if _, ok := usable(e); !ok {
			continue
		}
		out.add(e.Category, e.DurationMinutes)
	}
	return out
}

// TotalsByEffort sums minutes per effort tag; unknown tags count as white.
func TotalsByEffort(entries []domain.TrainingEntry) EffortTotals {
	var out EffortTotals
	for _, e := range entries {
		if _, ok := usable(e); !ok {
			continue
		}
		out.add(e.Effort, e.DurationMinutes)
	}
	return out
}

// PerDayBreakdown returns exactly seven zero-filled days starting at the
// Monday of weekStart. Entries outside that week are ignored.
func PerDayBreakdown(entries []domain.TrainingEntry, weekStart time.Time) [7]Day {
	r := weeks.Bounds(weekStart)
	var out [7]Day
	for i := range out {
		out[i].Date = weeks.FormatDate(r.Start.AddDate(0, 0, i))
		out[i].Label = DayLabels[i]
	}
	for _, e := range entries {
		d, ok := usable(e)
		if !ok || !r.Contains(d) {
			continue
		}
		i := (int(d.Weekday()) + 6) % 7
		out[i].CategoryTotals.add(e.Category, e.DurationMinutes)
		out[i].EffortTotals.add(e.Effort, e.DurationMinutes)
	}
	return out
}

// PerWeekBreakdown groups entries dated on or after since by their Monday.
// Weeks are ascending and weeks without entries are left out.
func PerWeekBreakdown(entries []domain.TrainingEntry, since time.Time) []Week {
	since = weeks.Day(since)
	byMonday := make(map[string]*Week)
	for _, e := range entries {
		d, ok := usable(e)
		if !ok || d.Before(since) {
			continue
		}
		monday := weeks.Monday(d)
		key := weeks.FormatDate(monday)
		w, ok := byMonday[key]
		if !ok {
			w = &Week{WeekStart: key, Label: weeks.ISOWeekLabel(monday)}
			byMonday[key] = w
		}
		w.CategoryTotals.add(e.Category, e.DurationMinutes)
		w.EffortTotals.add(e.Effort, e.DurationMinutes)
	}

	out := make([]Week, 0, len(byMonday))
	for _, w := range byMonday {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	return out
}

// Within keeps the entries whose date falls inside r.
func Within(entries []domain.TrainingEntry, r weeks.Range) []domain.TrainingEntry {
	var out []domain.TrainingEntry
	for _, e := range entries {
		if r.ContainsDate(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Hours converts minutes to hours truncated to two decimals.
func Hours(minutes int) float64 {
	return float64(minutes*100/60) / 100
}
