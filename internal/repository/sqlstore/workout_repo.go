package sqlstore

import (
	"context"
	"errors"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	"gorm.io/gorm"
)

type sqlWorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a gorm-backed repository.WorkoutRepository.
func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &sqlWorkoutRepository{db: db}
}

// CreateBatch inserts the records one by one inside a single transaction;
// any failure rolls back every row written so far.
func (r *sqlWorkoutRepository) CreateBatch(ctx context.Context, records []domain.WorkoutRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]Workout, len(records))
	for i := range records {
		if records[i].UserID == 0 || records[i].Date.IsZero() {
			return errors.New("workout record requires userId and date")
		}
		row, err := fromDomainWorkout(&records[i])
		if err != nil {
			return err
		}
		rows[i] = row
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}

	for i := range rows {
		records[i].ID = rows[i].ID
		records[i].CreatedAt = rows[i].CreatedAt
	}
	return nil
}

func (r *sqlWorkoutRepository) GetByID(ctx context.Context, id int64) (*domain.WorkoutRecord, error) {
	var row Workout
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	rec, err := toDomainWorkout(&row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqlWorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutRecord, error) {
	var rows []Workout
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.WorkoutRecord, 0, len(rows))
	for i := range rows {
		rec, err := toDomainWorkout(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
