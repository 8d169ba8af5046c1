package sqlstore

import (
	"context"
	"errors"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	"gorm.io/gorm"
)

type sqlProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a gorm-backed repository.ProfileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &sqlProfileRepository{db: db}
}

// Upsert creates or replaces the user's profile together with its equipment
// and injury associations.
func (r *sqlProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) (int64, error) {
	if profile.UserID == 0 {
		return 0, errors.New("profile requires userId")
	}

	var saved UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", profile.UserID).First(&saved).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		saved.UserID = profile.UserID
		saved.FirstName = profile.FirstName
		saved.LastName = profile.LastName
		saved.BirthDate = profile.BirthDate
		saved.Gender = string(profile.Gender)
		saved.HeightCM = profile.HeightCM
		saved.WeightKG = profile.WeightKG
		saved.ExperienceLevel = string(profile.ExperienceLevel)
		saved.Goal = string(profile.Goal)
		saved.Frequency = profile.Frequency
		if err := tx.Omit("Equipment", "Injuries").Save(&saved).Error; err != nil {
			return err
		}

		equipment := make([]Equipment, 0, len(profile.Equipment))
		for _, e := range profile.Equipment {
			equipment = append(equipment, Equipment{ID: e.ID, Name: e.Name})
		}
		injuries := make([]Injury, 0, len(profile.Injuries))
		for _, i := range profile.Injuries {
			injuries = append(injuries, Injury{ID: i.ID, Name: i.Name})
		}
		if err := tx.Model(&saved).Association("Equipment").Replace(equipment); err != nil {
			return err
		}
		return tx.Model(&saved).Association("Injuries").Replace(injuries)
	})
	if err != nil {
		return 0, translateError(err)
	}

	profile.ID = saved.ID
	profile.CreatedAt = saved.CreatedAt
	profile.UpdatedAt = saved.UpdatedAt
	return saved.ID, nil
}

func (r *sqlProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	var row UserProfile
	err := r.db.WithContext(ctx).
		Preload("Equipment", func(db *gorm.DB) *gorm.DB { return db.Order("equipment.id") }).
		Preload("Injuries", func(db *gorm.DB) *gorm.DB { return db.Order("injuries.id") }).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainProfile(&row), nil
}
