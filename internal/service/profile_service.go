package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ProfileInput carries the onboarding answers. Equipment and injuries are
// catalog ids.
type ProfileInput struct {
	FirstName       string
	LastName        string
	BirthDate       time.Time
	Gender          domain.Gender
	HeightCM        float64
	WeightKG        float64
	ExperienceLevel domain.ExperienceLevel
	Goal            domain.Goal
	Frequency       int
	EquipmentIDs    []int64
	InjuryIDs       []int64
}

type ProfileService interface {
	UpsertProfile(ctx context.Context, userID int64, input ProfileInput) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	catalogRepo repository.CatalogRepository
	now         func() time.Time
}

func NewProfileService(profileRepo repository.ProfileRepository, catalogRepo repository.CatalogRepository) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		catalogRepo: catalogRepo,
		now:         time.Now,
	}
}

// UpsertProfile validates the input, resolves equipment and injuries against
// the catalog and stores the profile. The baseline equipment is always added.
func (s *profileService) UpsertProfile(ctx context.Context, userID int64, input ProfileInput) (*domain.Profile, error) {
	profile := &domain.Profile{
		UserID:          userID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		BirthDate:       domain.CalendarDate(input.BirthDate),
		Gender:          input.Gender,
		HeightCM:        input.HeightCM,
		WeightKG:        input.WeightKG,
		ExperienceLevel: input.ExperienceLevel,
		Goal:            input.Goal,
		Frequency:       input.Frequency,
	}
	if err := profile.Validate(s.now()); err != nil {
		return nil, err
	}

	equipmentIDs := uniqueIDs(input.EquipmentIDs)
	equipment, err := s.catalogRepo.GetEquipmentByIDs(ctx, equipmentIDs)
	if err != nil {
		return nil, err
	}
	if len(equipment) != len(equipmentIDs) {
		return nil, fmt.Errorf("%w: unknown equipment id", domain.ErrInvalidProfile)
	}
	profile.Equipment = equipment

	injuryIDs := uniqueIDs(input.InjuryIDs)
	injuries, err := s.catalogRepo.GetInjuriesByIDs(ctx, injuryIDs)
	if err != nil {
		return nil, err
	}
	if len(injuries) != len(injuryIDs) {
		return nil, fmt.Errorf("%w: unknown injury id", domain.ErrInvalidProfile)
	}
	profile.Injuries = injuries

	baseline, err := s.catalogRepo.GetEquipmentByName(ctx, domain.BaselineEquipmentName)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Warnf("baseline equipment %q missing from catalog, profile %d stored without it", domain.BaselineEquipmentName, userID)
	case err != nil:
		return nil, err
	default:
		profile.EnsureBaselineEquipment(*baseline)
	}

	if _, err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
