package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutService(t *testing.T) {
	ctx := context.Background()
	repo := newFakeWorkoutRepo()
	require.NoError(t, repo.CreateBatch(ctx, BuildRecords(1, time.Now(), multiWeekPlan())))
	require.NoError(t, repo.CreateBatch(ctx, BuildRecords(2, time.Now(), multiWeekPlan())))
	svc := NewWorkoutService(repo)

	mine, err := svc.ListWorkouts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 5)

	rec, err := svc.GetWorkout(ctx, 1, mine[2].ID)
	require.NoError(t, err)
	assert.Equal(t, mine[2], *rec)

	theirs, err := svc.ListWorkouts(ctx, 2)
	require.NoError(t, err)
	_, err = svc.GetWorkout(ctx, 1, theirs[0].ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = svc.GetWorkout(ctx, 1, 9999)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(testCatalogRepo())

	exercises, err := svc.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, exercises, 10)

	equipment, err := svc.ListEquipment(ctx)
	require.NoError(t, err)
	assert.Len(t, equipment, 4)

	injuries, err := svc.ListInjuries(ctx)
	require.NoError(t, err)
	assert.Len(t, injuries, 2)
}
