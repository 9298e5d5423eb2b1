package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"swimteam/swimlog/internal/repository"
)

func TestDateFilter(t *testing.T) {
	got := dateFilter(bson.M{"userId": "u1"}, "trainingDate", repository.DateRange{From: "2025-06-02", To: "2025-06-08"})
	assert.Equal(t, bson.M{
		"userId":       "u1",
		"trainingDate": bson.M{"$gte": "2025-06-02", "$lte": "2025-06-08"},
	}, got)

	got = dateFilter(bson.M{"userId": "u1"}, "trainingDate", repository.DateRange{})
	assert.Equal(t, bson.M{"userId": "u1"}, got)
}

func rawField(t *testing.T, doc bson.M) bson.RawValue {
	t.Helper()
	b, err := bson.Marshal(doc)
	require.NoError(t, err)
	return bson.Raw(b).Lookup("data")
}

func TestPlainJSON(t *testing.T) {
	v, err := plainJSON(rawField(t, bson.M{"data": bson.M{
		"vlinderslag": bson.M{"omschrijving": "x", "vanaf": "2025-01-01"},
		"rugcrawl":    bson.A{bson.M{"description": "y"}},
	}}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"vlinderslag": map[string]any{"omschrijving": "x", "vanaf": "2025-01-01"},
		"rugcrawl":    []any{map[string]any{"description": "y"}},
	}, v)

	v, err = plainJSON(rawField(t, bson.M{"data": "not an object"}))
	require.NoError(t, err)
	assert.Equal(t, "not an object", v)

	v, err = plainJSON(bson.RawValue{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(mongo.ErrNoDocuments), repository.ErrNotFound)
}
