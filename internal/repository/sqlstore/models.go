package sqlstore

import (
	"encoding/json"
	"time"

	"fitcoach/backend/internal/domain"

	"gorm.io/datatypes"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

type Equipment struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (Equipment) TableName() string { return "equipment" }

type Injury struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (Injury) TableName() string { return "injuries" }

type Exercise struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"uniqueIndex;not null"`
	TargetMuscle   string `gorm:"not null"`
	DifficultyTier *int
	EquipmentID    *int64 `gorm:"index"`
	Equipment      *Equipment
}

func (Exercise) TableName() string { return "exercises" }

type UserProfile struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	UserID          int64 `gorm:"uniqueIndex;not null"`
	FirstName       string
	LastName        string
	BirthDate       time.Time
	Gender          string
	HeightCM        float64
	WeightKG        float64
	ExperienceLevel string
	Goal            string
	Frequency       int
	Equipment       []Equipment `gorm:"many2many:user_equipment;"`
	Injuries        []Injury    `gorm:"many2many:user_injuries;"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserProfile) TableName() string { return "user_profiles" }

// Workout stores one dated day of a generated plan; the day is kept as an
// opaque JSON document in ExerciseList.
type Workout struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	UserID       int64          `gorm:"index:idx_workouts_user_date;not null"`
	Date         time.Time      `gorm:"index:idx_workouts_user_date;not null"`
	ExerciseList datatypes.JSON `gorm:"not null"`
	CreatedAt    time.Time
}

func (Workout) TableName() string { return "workouts" }

func toDomainUser(u *User) *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainEquipment(rows []Equipment) []domain.Equipment {
	out := make([]domain.Equipment, 0, len(rows))
	for _, e := range rows {
		out = append(out, domain.Equipment{ID: e.ID, Name: e.Name})
	}
	return out
}

func toDomainInjuries(rows []Injury) []domain.Injury {
	out := make([]domain.Injury, 0, len(rows))
	for _, i := range rows {
		out = append(out, domain.Injury{ID: i.ID, Name: i.Name})
	}
	return out
}

func toDomainExercise(e *Exercise) domain.Exercise {
	ex := domain.Exercise{
		ID:             e.ID,
		Name:           e.Name,
		TargetMuscle:   e.TargetMuscle,
		EquipmentID:    e.EquipmentID,
		DifficultyTier: e.DifficultyTier,
	}
	if e.Equipment != nil {
		ex.Equipment = &domain.Equipment{ID: e.Equipment.ID, Name: e.Equipment.Name}
	}
	return ex
}

func toDomainProfile(p *UserProfile) *domain.Profile {
	return &domain.Profile{
		ID:              p.ID,
		UserID:          p.UserID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		BirthDate:       p.BirthDate,
		Gender:          domain.Gender(p.Gender),
		HeightCM:        p.HeightCM,
		WeightKG:        p.WeightKG,
		ExperienceLevel: domain.ExperienceLevel(p.ExperienceLevel),
		Goal:            domain.Goal(p.Goal),
		Frequency:       p.Frequency,
		Equipment:       toDomainEquipment(p.Equipment),
		Injuries:        toDomainInjuries(p.Injuries),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func fromDomainWorkout(r *domain.WorkoutRecord) (Workout, error) {
	payload, err := json.Marshal(r.Day)
	if err != nil {
		return Workout{}, err
	}
	return Workout{
		UserID:       r.UserID,
		Date:         domain.CalendarDate(r.Date),
		ExerciseList: datatypes.JSON(payload),
	}, nil
}

func toDomainWorkout(w *Workout) (domain.WorkoutRecord, error) {
	rec := domain.WorkoutRecord{
		ID:        w.ID,
		UserID:    w.UserID,
		Date:      domain.CalendarDate(w.Date),
		CreatedAt: w.CreatedAt,
	}
	if err := json.Unmarshal(w.ExerciseList, &rec.Day); err != nil {
		return domain.WorkoutRecord{}, err
	}
	return rec, nil
}
