package service

import (
	"context"
	"errors"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutService reads back persisted workout records.
type WorkoutService interface {
	ListWorkouts(ctx context.Context, userID int64) ([]domain.WorkoutRecord, error)
	GetWorkout(ctx context.Context, userID, workoutID int64) (*domain.WorkoutRecord, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID int64) ([]domain.WorkoutRecord, error) {
	return s.workoutRepo.ListByUser(ctx, userID)
}

// GetWorkout returns ErrWorkoutNotFound for records owned by another user too,
// so ids of foreign workouts are not disclosed.
func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID int64) (*domain.WorkoutRecord, error) {
	rec, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return rec, nil
}
