package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSwimmers(t *testing.T) {
	db := seededDB()
	svc := NewTeamService(db.store().Profiles)

	_, err := svc.ListSwimmers(context.Background(), sanne)
	assert.ErrorIs(t, err, ErrAccessDenied)

	swimmers, err := svc.ListSwimmers(context.Background(), coach)
	require.NoError(t, err)
	require.Len(t, swimmers, 2)
	assert.Equal(t, "Daan", swimmers[0].Username)
	assert.Equal(t, "Sanne", swimmers[1].Username)
}

func TestResolveSwimmer(t *testing.T) {
	db := seededDB()
	svc := NewTeamService(db.store().Profiles)
	ctx := context.Background()

	p, err := svc.ResolveSwimmer(ctx, sanne, sanneID)
	require.NoError(t, err)
	assert.Equal(t, "Sanne", p.Username)

	p, err = svc.ResolveSwimmer(ctx, coach, daanID)
	require.NoError(t, err)
	assert.Equal(t, "Daan", p.Username)

	_, err = svc.ResolveSwimmer(ctx, sanne, daanID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.ResolveSwimmer(ctx, coach, "")
	assert.ErrorIs(t, err, ErrValidation)
}
