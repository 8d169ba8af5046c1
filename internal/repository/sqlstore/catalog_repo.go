package sqlstore

import (
	"context"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	"gorm.io/gorm"
)

type sqlCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a gorm-backed repository.CatalogRepository.
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &sqlCatalogRepository{db: db}
}

func (r *sqlCatalogRepository) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	var rows []Exercise
	if err := r.db.WithContext(ctx).Preload("Equipment").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Exercise, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainExercise(&rows[i]))
	}
	return out, nil
}

func (r *sqlCatalogRepository) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var rows []Equipment
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEquipment(rows), nil
}

func (r *sqlCatalogRepository) ListInjuries(ctx context.Context) ([]domain.Injury, error) {
	var rows []Injury
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainInjuries(rows), nil
}

func (r *sqlCatalogRepository) GetEquipmentByName(ctx context.Context, name string) (*domain.Equipment, error) {
	var row Equipment
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return &domain.Equipment{ID: row.ID, Name: row.Name}, nil
}

func (r *sqlCatalogRepository) GetEquipmentByIDs(ctx context.Context, ids []int64) ([]domain.Equipment, error) {
	if len(ids) == 0 {
		return []domain.Equipment{}, nil
	}
	var rows []Equipment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEquipment(rows), nil
}

func (r *sqlCatalogRepository) GetInjuriesByIDs(ctx context.Context, ids []int64) ([]domain.Injury, error) {
	if len(ids) == 0 {
		return []domain.Injury{}, nil
	}
	var rows []Injury
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainInjuries(rows), nil
}
