package sqlstore

import (
	"context"
	"fmt"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	"gorm.io/gorm"
)

// NewCatalogSeeder creates a gorm-backed repository.CatalogSeeder.
func NewCatalogSeeder(db *gorm.DB) repository.CatalogSeeder {
	return &sqlCatalogRepository{db: db}
}

// namedRow is the shared shape of the equipment and injuries tables.
type namedRow struct {
	ID   int64
	Name string
}

func (r *sqlCatalogRepository) ReplaceCatalog(ctx context.Context, seed *domain.CatalogSeed) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		equipmentIDs, staleEquipment, err := syncNames(tx, Equipment{}.TableName(), seed.Equipment)
		if err != nil {
			return err
		}
		_, staleInjuries, err := syncNames(tx, Injury{}.TableName(), seed.Injuries)
		if err != nil {
			return err
		}
		if err := syncExercises(tx, seed.Exercises, equipmentIDs); err != nil {
			return err
		}

		// Exercises no longer point at stale equipment, profiles still may.
		if len(staleEquipment) > 0 {
			if err := tx.Exec("DELETE FROM user_equipment WHERE equipment_id IN ?", staleEquipment).Error; err != nil {
				return err
			}
			if err := tx.Delete(&Equipment{}, staleEquipment).Error; err != nil {
				return err
			}
		}
		if len(staleInjuries) > 0 {
			if err := tx.Exec("DELETE FROM user_injuries WHERE injury_id IN ?", staleInjuries).Error; err != nil {
				return err
			}
			if err := tx.Delete(&Injury{}, staleInjuries).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

// syncNames inserts the names missing from table and returns the id of every
// name plus the ids of rows whose name is no longer listed.
func syncNames(tx *gorm.DB, table string, names []string) (map[string]int64, []int64, error) {
	var rows []namedRow
	if err := tx.Table(table).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	existing := make(map[string]int64, len(rows))
	for _, row := range rows {
		existing[row.Name] = row.ID
	}

	ids := make(map[string]int64, len(names))
	for _, name := range names {
		if id, ok := existing[name]; ok {
			ids[name] = id
			delete(existing, name)
			continue
		}
		row := namedRow{Name: name}
		if err := tx.Table(table).Create(&row).Error; err != nil {
			return nil, nil, err
		}
		ids[name] = row.ID
	}

	stale := make([]int64, 0, len(existing))
	for _, id := range existing {
		stale = append(stale, id)
	}
	return ids, stale, nil
}

func syncExercises(tx *gorm.DB, exercises []domain.SeedExercise, equipmentIDs map[string]int64) error {
	var rows []Exercise
	if err := tx.Select("id", "name").Find(&rows).Error; err != nil {
		return err
	}
	existing := make(map[string]int64, len(rows))
	for _, row := range rows {
		existing[row.Name] = row.ID
	}

	for _, e := range exercises {
		var equipmentID *int64
		if e.EquipmentName != "" {
			id, ok := equipmentIDs[e.EquipmentName]
			if !ok {
				return fmt.Errorf("exercise %q references unknown equipment %q", e.Name, e.EquipmentName)
			}
			equipmentID = &id
		}

		if id, ok := existing[e.Name]; ok {
			delete(existing, e.Name)
			err := tx.Model(&Exercise{}).Where("id = ?", id).Updates(map[string]interface{}{
				"target_muscle":   e.TargetMuscle,
				"equipment_id":    equipmentID,
				"difficulty_tier": e.DifficultyTier,
			}).Error
			if err != nil {
				return err
			}
			continue
		}

		row := Exercise{
			Name:           e.Name,
			TargetMuscle:   e.TargetMuscle,
			EquipmentID:    equipmentID,
			DifficultyTier: e.DifficultyTier,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	if len(existing) == 0 {
		return nil
	}
	stale := make([]int64, 0, len(existing))
	for _, id := range existing {
		stale = append(stale, id)
	}
	return tx.Delete(&Exercise{}, stale).Error
}
