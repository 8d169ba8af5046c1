package repository

import (
	"context"
	"fitcoach/backend/internal/domain"
)

var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ProfileRepository stores onboarding profiles. GetByUserID returns the
// profile with its equipment and injuries resolved.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
}

// CatalogRepository gives read access to the exercise catalog and the
// equipment/injury reference lists.
type CatalogRepository interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	ListInjuries(ctx context.Context) ([]domain.Injury, error)
	GetEquipmentByName(ctx context.Context, name string) (*domain.Equipment, error)
	GetEquipmentByIDs(ctx context.Context, ids []int64) ([]domain.Equipment, error)
	GetInjuriesByIDs(ctx context.Context, ids []int64) ([]domain.Injury, error)
}

// CatalogSeeder replaces the reference catalog with a normalized seed in one
// atomic unit. Entries are matched by name, so equipment, injuries and
// exercises that survive a reseed keep their ids. Entries missing from the
// seed are removed, together with profile references to them.
type CatalogSeeder interface {
	ReplaceCatalog(ctx context.Context, seed *domain.CatalogSeed) error
}

// WorkoutRepository stores dated workout records.
type WorkoutRepository interface {
	// CreateBatch writes all records in one atomic unit: either every record
	// is committed or none is. Assigned ids are written back into records.
	CreateBatch(ctx context.Context, records []domain.WorkoutRecord) error
	GetByID(ctx context.Context, id int64) (*domain.WorkoutRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutRecord, error)
}
