package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidCatalogSeed = errors.New("invalid catalog seed")

// SeedExercise is a catalog exercise as read from a seed file.
// Equipment is referenced by name; empty means no equipment is needed.
type SeedExercise struct {
	Name           string
	TargetMuscle   string
	EquipmentName  string
	DifficultyTier *int
}

// CatalogSeed is the full content of the reference catalog. Loading it
// replaces whatever the catalog held before.
type CatalogSeed struct {
	Equipment []string
	Injuries  []string
	Exercises []SeedExercise
}

// Normalize trims and dedupes names and makes sure the baseline and every
// equipment referenced by an exercise are listed. Any casing of the baseline
// is folded into BaselineEquipmentName. Equipment and injuries end up sorted;
// exercises keep their file order and must have unique names.
func (s *CatalogSeed) Normalize() error {
	equipment := make(map[string]struct{}, len(s.Equipment)+1)
	equipment[BaselineEquipmentName] = struct{}{}
	for _, name := range s.Equipment {
		if name = equipmentName(name); name != "" {
			equipment[name] = struct{}{}
		}
	}

	exercises := make([]SeedExercise, 0, len(s.Exercises))
	seen := make(map[string]struct{}, len(s.Exercises))
	for i, e := range s.Exercises {
		e.Name = strings.TrimSpace(e.Name)
		e.TargetMuscle = strings.TrimSpace(e.TargetMuscle)
		e.EquipmentName = equipmentName(e.EquipmentName)
		if e.Name == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrInvalidCatalogSeed, i+1)
		}
		if e.TargetMuscle == "" {
			return fmt.Errorf("%w: exercise %q has no target muscle", ErrInvalidCatalogSeed, e.Name)
		}
		if e.DifficultyTier != nil && (*e.DifficultyTier < 1 || *e.DifficultyTier > 5) {
			return fmt.Errorf("%w: exercise %q has difficulty tier %d, want 1-5", ErrInvalidCatalogSeed, e.Name, *e.DifficultyTier)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: exercise %q listed twice", ErrInvalidCatalogSeed, e.Name)
		}
		seen[e.Name] = struct{}{}
		if e.EquipmentName != "" {
			equipment[e.EquipmentName] = struct{}{}
		}
		exercises = append(exercises, e)
	}

	s.Equipment = sortedNames(equipment)
	s.Exercises = exercises

	injuries := make(map[string]struct{}, len(s.Injuries))
	for _, name := range s.Injuries {
		if name = strings.TrimSpace(name); name != "" {
			injuries[name] = struct{}{}
		}
	}
	s.Injuries = sortedNames(injuries)
	return nil
}

func equipmentName(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, BaselineEquipmentName) {
		return BaselineEquipmentName
	}
	return name
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
