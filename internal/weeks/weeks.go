// Package weeks holds the Monday-anchored calendar arithmetic shared by every
// weekly and 8-week view. Everything here works on calendar dates. A date is
// carried as midnight UTC of that day, so zones whose clocks jump at midnight
// cannot shift it onto a neighbouring day.
package weeks

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every date the API accepts or emits.
const DateLayout = "2006-01-02"

// DefaultWindowDays is the length of the 8-week view, inclusive of both ends.
const DefaultWindowDays = 56

// ErrInvalidDate is returned for malformed YYYY-MM-DD input.
var ErrInvalidDate = errors.New("invalid date")

// Range is an inclusive [Start, End] span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD string as a calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day returns the calendar day t falls on in its own location, as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the local calendar date of time.Now().
func Today() time.Time {
	return Day(time.Now())
}

// Monday returns the Monday on or before t.
func Monday(t time.Time) time.Time {
	t = Day(t)
	// time.Sunday == 0, so Sunday steps back six days
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// Bounds returns the Monday..Sunday week containing ref.
func Bounds(ref time.Time) Range {
	start := Monday(ref)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// BoundsOf parses ref and returns its week.
func BoundsOf(ref string) (Range, error) {
	t, err := ParseDate(ref)
	if err != nil {
		return Range{}, err
	}
	return Bounds(t), nil
}

// TrailingWindow returns the days-long span ending on ref. A non-positive
// days falls back to DefaultWindowDays.
func TrailingWindow(ref time.Time, days int) Range {
	if days <= 0 {
		days = DefaultWindowDays
	}
	end := Day(ref)
	return Range{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// ISOWeekLabel renders the chart axis label "W<week> '<yy>" using ISO-8601
// week numbering. The year is the ISO week-year, which differs from the
// calendar year around New Year.
func ISOWeekLabel(t time.Time) string {
	year, week := Day(t).ISOWeek()
	return fmt.Sprintf("W%d '%02d", week, year%100)
}

// Contains reports whether t's calendar day lies within r.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// ContainsDate is Contains for a YYYY-MM-DD string; malformed input is never contained.
func (r Range) ContainsDate(s string) bool {
	t, err := ParseDate(s)
	if err != nil {
		return false
	}
	return r.Contains(t)
}

// Days is the number of calendar days in r, both ends included.
func (r Range) Days() int {
	start, end := Day(r.Start), Day(r.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// Dates lists every day of r in order.
func (r Range) Dates() []time.Time {
	n := r.Days()
	start := Day(r.Start)
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out
}

// Strings returns the inclusive YYYY-MM-DD pair used in range queries.
func (r Range) Strings() (string, string) {
	return FormatDate(r.Start), FormatDate(r.End)
}
