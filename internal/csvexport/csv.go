// Package csvexport flattens logged rows into the CSV files offered for
// download. Output is byte-stable: rows are joined with "\n" without a
// trailing newline, and a field is quoted only when it contains a comma,
// a double quote or a newline.
package csvexport

import (
	"fmt"
	"strconv"
	"strings"

	"swimteam/swimlog/internal/domain"
)

// Kind names one exportable table.
type Kind string

const (
	KindTraining Kind = "training"
	KindRHR      Kind = "rhr"
	KindBody     Kind = "body"
)

// ParseKind accepts the kinds above.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTraining, KindRHR, KindBody:
		return k, nil
	}
	return "", fmt.Errorf("unknown export kind %q", s)
}

var (
	TrainingColumns = []string{"training_date", "session_type", "duration_minutes", "heart_rate", "effort_color", "complexity", "details"}
	RHRColumns      = []string{"entry_date", "resting_heart_rate"}
	BodyColumns     = []string{"entry_date", "height_cm", "weight_kg"}
)

// Encode renders a header row followed by one line per record. An empty
// record list renders as "".
func Encode(columns []string, records [][]string) string {
	if len(records) == 0 {
		return ""
	}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, line(columns))
	for _, r := range records {
		lines = append(lines, line(r))
	}
	return strings.Join(lines, "\n")
}

func line(fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = Quote(f)
	}
	return strings.Join(out, ",")
}

// Quote wraps s in double quotes, doubling embedded ones, when s holds a
// comma, a double quote or a newline.
func Quote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Training renders training rows.
func Training(rows []domain.TrainingEntry) string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Date,
			string(r.Category),
			strconv.Itoa(r.DurationMinutes),
			optInt(r.HeartRate),
			string(r.Effort),
			strconv.Itoa(r.Complexity),
			r.Details,
		})
	}
	return Encode(TrainingColumns, records)
}

// RestingHeartRate renders RHR rows.
func RestingHeartRate(rows []domain.RestingHeartRateEntry) string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Date, strconv.Itoa(r.BPM)})
	}
	return Encode(RHRColumns, records)
}

// Body renders body metric rows.
func Body(rows []domain.BodyMetricEntry) string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Date, optFloat(r.HeightCm), optFloat(r.WeightKg)})
	}
	return Encode(BodyColumns, records)
}

// Filename is the download name, e.g. "training_week.csv".
func Filename(k Kind, scope string) string {
	return fmt.Sprintf("%s_%s.csv", k, scope)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
