package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
)

func newTestLog(db *memDB) LogService {
	st := db.store()
	return NewLogService(st.Training, st.RHR, st.Body, logger.Nop())
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func validTraining() TrainingInput {
	return TrainingInput{
		Date:            "2025-06-02",
		Category:        "morning swim",
		DurationMinutes: 60,
		HeartRate:       intPtr(142),
		Effort:          "groen",
		Complexity:      2,
		Details:         "  Feeling tired, sore legs ",
	}
}

func TestAddTraining_NormalizesInput(t *testing.T) {
	db := seededDB()
	svc := newTestLog(db)

	e, err := svc.AddTraining(context.Background(), sanne, validTraining())
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, sanneID, e.UserID)
	assert.Equal(t, domain.CategoryMorningSwim, e.Category)
	assert.Equal(t, domain.EffortGreen, e.Effort)
	assert.Equal(t, "Feeling tired, sore legs", e.Details)
	assert.Len(t, db.training, 1)
}

func TestAddTraining_Validation(t *testing.T) {
	svc := newTestLog(seededDB())

	cases := map[string]func(*TrainingInput){
		"bad date":         func(in *TrainingInput) { in.Date = "02-06-2025" },
		"missing duration": func(in *TrainingInput) { in.DurationMinutes = 0 },
		"unknown category": func(in *TrainingInput) { in.Category = "Cycling" },
		"unknown effort":   func(in *TrainingInput) { in.Effort = "Blue" },
		"complexity":       func(in *TrainingInput) { in.Complexity = 4 },
		"heart rate":       func(in *TrainingInput) { in.HeartRate = intPtr(5) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validTraining()
			mutate(&in)
			_, err := svc.AddTraining(context.Background(), sanne, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAddTraining_CoachCannotLog(t *testing.T) {
	svc := newTestLog(seededDB())
	_, err := svc.AddTraining(context.Background(), coach, validTraining())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateTraining_OwnerOrCoach(t *testing.T) {
	db := seededDB()
	svc := newTestLog(db)
	ctx := context.Background()

	e, err := svc.AddTraining(ctx, sanne, validTraining())
	require.NoError(t, err)

	in := validTraining()
	in.DurationMinutes = 75
	_, err = svc.UpdateTraining(ctx, daan, e.ID, in)
	assert.ErrorIs(t, err, ErrAccessDenied)

	updated, err := svc.UpdateTraining(ctx, coach, e.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 75, updated.DurationMinutes)
	assert.Equal(t, sanneID, updated.UserID)

	_, err = svc.UpdateTraining(ctx, sanne, "missing", in)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRecordRHR_OnePerDate(t *testing.T) {
	db := seededDB()
	svc := newTestLog(db)
	ctx := context.Background()

	first, err := svc.RecordRHR(ctx, sanne, RHRInput{Date: "2025-06-02", BPM: 52})
	require.NoError(t, err)
	second, err := svc.RecordRHR(ctx, sanne, RHRInput{Date: "2025-06-02", BPM: 49})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, db.rhr, 1)
	assert.Equal(t, 49, db.rhr[first.ID].BPM)

	_, err = svc.RecordRHR(ctx, sanne, RHRInput{Date: "2025-06-02", BPM: 300})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRHR_DateClash(t *testing.T) {
	db := seededDB()
	svc := newTestLog(db)
	ctx := context.Background()

	_, err := svc.RecordRHR(ctx, sanne, RHRInput{Date: "2025-06-02", BPM: 52})
	require.NoError(t, err)
	other, err := svc.RecordRHR(ctx, sanne, RHRInput{Date: "2025-06-03", BPM: 50})
	require.NoError(t, err)

	_, err = svc.UpdateRHR(ctx, sanne, other.ID, RHRInput{Date: "2025-06-02", BPM: 50})
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestAddBody_NeedsAMeasurement(t *testing.T) {
	db := seededDB()
	svc := newTestLog(db)
	ctx := context.Background()

	_, err := svc.AddBody(ctx, sanne, BodyInput{Date: "2025-06-02"})
	assert.ErrorIs(t, err, ErrValidation)

	e, err := svc.AddBody(ctx, sanne, BodyInput{Date: "2025-06-02", WeightKg: floatPtr(61.4)})
	require.NoError(t, err)
	assert.Nil(t, e.HeightCm)

	upd, err := svc.UpdateBody(ctx, sanne, e.ID, BodyInput{Date: "2025-06-02", HeightCm: floatPtr(172), WeightKg: floatPtr(61.2)})
	require.NoError(t, err)
	assert.Equal(t, 172.0, *upd.HeightCm)

	_, err = svc.UpdateBody(ctx, daan, e.ID, BodyInput{Date: "2025-06-02", WeightKg: floatPtr(60)})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
