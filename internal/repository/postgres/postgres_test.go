package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"swimteam/swimlog/internal/repository"
)

func TestDateRange(t *testing.T) {
	where, args := dateRange([]string{"user_id = $1"}, []any{"u1"}, "entry_date",
		repository.DateRange{From: "2025-06-02", To: "2025-06-08"})
	assert.Equal(t, "user_id = $1 AND entry_date >= $2::date AND entry_date <= $3::date", and(where))
	assert.Equal(t, []any{"u1", "2025-06-02", "2025-06-08"}, args)

	where, args = dateRange([]string{"user_id = $1"}, []any{"u1"}, "entry_date", repository.DateRange{To: "2025-06-08"})
	assert.Equal(t, "user_id = $1 AND entry_date <= $2::date", and(where))
	assert.Len(t, args, 2)
}

func TestErrorMapping(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), repository.ErrNotFound)
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
