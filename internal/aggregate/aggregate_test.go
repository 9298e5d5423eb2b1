package aggregate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/weeks"
)

func entry(date string, cat domain.Category, minutes int, effort domain.Effort) domain.TrainingEntry {
	return domain.TrainingEntry{Date: date, Category: cat, DurationMinutes: minutes, Effort: effort}
}

func scenario() []domain.TrainingEntry {
	return []domain.TrainingEntry{
		entry("2025-06-02", domain.CategoryMorningSwim, 60, domain.EffortGreen),
		entry("2025-06-04", domain.CategoryLandTraining, 30, domain.EffortRed),
		entry("2025-06-08", domain.CategoryOther, 15, domain.EffortWhite),
	}
}

func TestTotalsByCategory_WeekScenario(t *testing.T) {
	ref, err := weeks.ParseDate("2025-06-04")
	require.NoError(t, err)
	r := weeks.Bounds(ref)

	got := TotalsByCategory(Within(scenario(), r))
	assert.Equal(t, CategoryTotals{Swim: 60, Land: 30, Other: 15, Total: 105}, got)
}

func TestTotalsByCategory_UnknownIsOther(t *testing.T) {
	got := TotalsByCategory([]domain.TrainingEntry{
		entry("2025-06-02", "Water polo", 20, ""),
		entry("2025-06-02", "", 10, ""),
	})
	assert.Equal(t, CategoryTotals{Other: 30, Total: 30}, got)
}

func TestTotalsByCategory_SkipsIncomplete(t *testing.T) {
	got := TotalsByCategory([]domain.TrainingEntry{
		entry("", domain.CategoryMorningSwim, 60, ""),
		entry("2025-06-02", domain.CategoryMorningSwim, 0, ""),
		entry("not-a-date", domain.CategoryMorningSwim, 45, ""),
		entry("2025-06-03", domain.CategoryAfternoonSwim, 90, ""),
	})
	assert.Equal(t, CategoryTotals{Swim: 90, Total: 90}, got)
}

func TestTotalsByCategory_OrderAndPartition(t *testing.T) {
	all := append(scenario(),
		entry("2025-06-05", domain.CategoryAfternoonSwim, 75, domain.EffortRed),
		entry("2025-06-06", "Yoga", 40, "Blue"),
		entry("2025-06-07", domain.CategoryLandTraining, 25, domain.EffortGreen),
	)
	want := TotalsByCategory(all)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.TrainingEntry, len(all))
		copy(shuffled, all)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, TotalsByCategory(shuffled))

		cut := rng.Intn(len(shuffled) + 1)
		left, right := TotalsByCategory(shuffled[:cut]), TotalsByCategory(shuffled[cut:])
		assert.Equal(t, want, CategoryTotals{
			Swim:  left.Swim + right.Swim,
			Land:  left.Land + right.Land,
			Other: left.Other + right.Other,
			Total: left.Total + right.Total,
		})
	}
}

func TestTotalsByEffort_UnknownIsWhite(t *testing.T) {
	got := TotalsByEffort([]domain.TrainingEntry{
		entry("2025-06-02", domain.CategoryMorningSwim, 30, "Blue"),
		entry("2025-06-02", domain.CategoryMorningSwim, 20, domain.EffortGreen),
		entry("2025-06-03", domain.CategoryMorningSwim, 10, domain.EffortRed),
		entry("2025-06-03", domain.CategoryMorningSwim, 5, ""),
	})
	assert.Equal(t, EffortTotals{Green: 20, White: 35, Red: 10}, got)
	assert.Equal(t, 65, got.Sum())
}

func TestPerDayBreakdown(t *testing.T) {
	monday, err := weeks.ParseDate("2025-06-02")
	require.NoError(t, err)
	entries := append(scenario(), entry("2025-06-09", domain.CategoryMorningSwim, 99, ""))

	days := PerDayBreakdown(entries, monday.AddDate(0, 0, 3))
	require.Len(t, days, 7)
	assert.Equal(t, "2025-06-02", days[0].Date)
	assert.Equal(t, "Mon", days[0].Label)
	assert.Equal(t, "2025-06-08", days[6].Date)
	assert.Equal(t, "Sun", days[6].Label)

	assert.Equal(t, 60, days[0].Swim)
	assert.Equal(t, 60, days[0].Green)
	assert.Equal(t, 30, days[2].Land)
	assert.Equal(t, 30, days[2].Red)
	assert.Equal(t, 15, days[6].Other)
	assert.Equal(t, 15, days[6].White)
	for _, i := range []int{1, 3, 4, 5} {
		assert.Zero(t, days[i].Total, days[i].Date)
	}
}

func TestPerWeekBreakdown_OmitsEmptyWeeks(t *testing.T) {
	since, err := weeks.ParseDate("2025-04-10")
	require.NoError(t, err)
	entries := []domain.TrainingEntry{
		entry("2025-04-09", domain.CategoryMorningSwim, 500, ""), // before window
		entry("2025-06-04", domain.CategoryLandTraining, 30, domain.EffortRed),
		entry("2025-04-14", domain.CategoryMorningSwim, 60, domain.EffortGreen),
		entry("2025-04-20", domain.CategoryOther, 15, ""),
		entry("2025-06-02", domain.CategoryAfternoonSwim, 45, ""),
	}

	got := PerWeekBreakdown(entries, since)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-04-14", got[0].WeekStart)
	assert.Equal(t, "W16 '25", got[0].Label)
	assert.Equal(t, CategoryTotals{Swim: 60, Other: 15, Total: 75}, got[0].CategoryTotals)
	assert.Equal(t, EffortTotals{Green: 60, White: 15}, got[0].EffortTotals)

	assert.Equal(t, "2025-06-02", got[1].WeekStart)
	assert.Equal(t, "W23 '25", got[1].Label)
	assert.Equal(t, CategoryTotals{Swim: 45, Land: 30, Total: 75}, got[1].CategoryTotals)
}

func TestHours_Truncates(t *testing.T) {
	assert.Equal(t, 1.5, Hours(90))
	assert.Equal(t, 0.33, Hours(20))
	assert.Equal(t, 0.7, Hours(42))
	assert.Equal(t, 0.0, Hours(0))
}
