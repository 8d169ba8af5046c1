package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"
)

var ErrPersistence = errors.New("failed to persist workout records")

// PlanPersister flattens validated plans into dated workout records.
type PlanPersister struct {
	workoutRepo repository.WorkoutRepository
}

func NewPlanPersister(workoutRepo repository.WorkoutRepository) *PlanPersister {
	return &PlanPersister{workoutRepo: workoutRepo}
}

// BuildRecords creates one record per plan day, dated startDate + date_offset
// in whole calendar days.
func BuildRecords(userID int64, startDate time.Time, plan *domain.GeneratedPlan) []domain.WorkoutRecord {
	start := domain.CalendarDate(startDate)
	records := make([]domain.WorkoutRecord, 0, plan.DayCount())
	for _, week := range plan.Weeks {
		for _, day := range week.Days {
			records = append(records, domain.WorkoutRecord{
				UserID: userID,
				Date:   start.AddDate(0, 0, day.DateOffset),
				Day:    day,
			})
		}
	}
	return records
}

// Persist writes every day of the plan in one atomic batch. Cancelling ctx
// does not interrupt a batch that has started.
func (p *PlanPersister) Persist(ctx context.Context, userID int64, startDate time.Time, plan *domain.GeneratedPlan) ([]domain.WorkoutRecord, error) {
	if plan == nil || plan.DayCount() == 0 {
		return nil, fmt.Errorf("%w: plan has no days", ErrPersistence)
	}

	records := BuildRecords(userID, startDate, plan)
	if err := p.workoutRepo.CreateBatch(context.WithoutCancel(ctx), records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return records, nil
}
