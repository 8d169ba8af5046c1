package service

import (
	"context"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"
)

// CatalogService exposes the read-only exercise catalog.
type CatalogService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	ListInjuries(ctx context.Context) ([]domain.Injury, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.catalogRepo.ListExercises(ctx)
}

func (s *catalogService) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return s.catalogRepo.ListEquipment(ctx)
}

func (s *catalogService) ListInjuries(ctx context.Context) ([]domain.Injury, error) {
	return s.catalogRepo.ListInjuries(ctx)
}
