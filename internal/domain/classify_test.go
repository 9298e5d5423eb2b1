package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Bucket
	}{
		{"Morning Swim", BucketSwim},
		{"Afternoon Swim", BucketSwim},
		{"MorningSwim", BucketSwim},
		{"afternoon_swim", BucketSwim},
		{"Land Training", BucketLand},
		{"LandTraining", BucketLand},
		{"Other Activity", BucketOther},
		{"Other", BucketOther},
		{"", BucketOther},
		{"Cycling", BucketOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCategory(tc.in), tc.in)
	}
}

func TestParseEffort_DefaultsToWhite(t *testing.T) {
	assert.Equal(t, EffortGreen, ParseEffort("green"))
	assert.Equal(t, EffortGreen, ParseEffort("Groen"))
	assert.Equal(t, EffortRed, ParseEffort("RED"))
	assert.Equal(t, EffortWhite, ParseEffort("White"))
	assert.Equal(t, EffortWhite, ParseEffort("Blue"))
	assert.Equal(t, EffortWhite, ParseEffort(""))
}

func TestNormalizeCategory(t *testing.T) {
	c, ok := NormalizeCategory("morning swim")
	assert.True(t, ok)
	assert.Equal(t, CategoryMorningSwim, c)

	c, ok = NormalizeCategory("Other")
	assert.True(t, ok)
	assert.Equal(t, CategoryOther, c)

	_, ok = NormalizeCategory("Cycling")
	assert.False(t, ok)
}

func TestNormalizeEffort(t *testing.T) {
	e, ok := NormalizeEffort("wit")
	assert.True(t, ok)
	assert.Equal(t, EffortWhite, e)

	_, ok = NormalizeEffort("Blue")
	assert.False(t, ok)
}
