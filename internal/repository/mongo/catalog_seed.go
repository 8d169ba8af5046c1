package mongo

import (
	"context"
	"fmt"

	"fitcoach/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// namedDocument is the stored shape of equipment and injuries.
type namedDocument struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

// ReplaceCatalog implements repository.CatalogSeeder inside one transaction.
func (r *mongoCatalogRepository) ReplaceCatalog(ctx context.Context, seed *domain.CatalogSeed) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		equipmentIDs, staleEquipment, err := r.syncNames(sc, r.equipment, equipmentCollectionName, seed.Equipment)
		if err != nil {
			return nil, err
		}
		_, staleInjuries, err := r.syncNames(sc, r.injuries, injuryCollectionName, seed.Injuries)
		if err != nil {
			return nil, err
		}
		if err := r.syncExercises(sc, seed.Exercises, equipmentIDs); err != nil {
			return nil, err
		}

		if err := r.dropStale(sc, r.equipment, "equipmentIds", staleEquipment); err != nil {
			return nil, err
		}
		return nil, r.dropStale(sc, r.injuries, "injuryIds", staleInjuries)
	})
	return err
}

// syncNames inserts the names missing from collection and returns the id of
// every name plus the ids of documents whose name is no longer listed.
func (r *mongoCatalogRepository) syncNames(ctx context.Context, collection *mongo.Collection, sequence string, names []string) (map[string]int64, []int64, error) {
	var docs []namedDocument
	if err := findAll(ctx, collection, bson.M{}, &docs); err != nil {
		return nil, nil, err
	}
	existing := make(map[string]int64, len(docs))
	for _, d := range docs {
		existing[d.Name] = d.ID
	}

	ids := make(map[string]int64, len(names))
	var missing []string
	for _, name := range names {
		if id, ok := existing[name]; ok {
			ids[name] = id
			delete(existing, name)
			continue
		}
		missing = append(missing, name)
	}

	if len(missing) > 0 {
		first, err := reserveIDs(ctx, r.counters, sequence, len(missing))
		if err != nil {
			return nil, nil, err
		}
		inserts := make([]interface{}, len(missing))
		for i, name := range missing {
			ids[name] = first + int64(i)
			inserts[i] = namedDocument{ID: first + int64(i), Name: name}
		}
		if _, err := collection.InsertMany(ctx, inserts); err != nil {
			return nil, nil, err
		}
	}

	stale := make([]int64, 0, len(existing))
	for _, id := range existing {
		stale = append(stale, id)
	}
	return ids, stale, nil
}

func (r *mongoCatalogRepository) syncExercises(ctx context.Context, exercises []domain.SeedExercise, equipmentIDs map[string]int64) error {
	var docs []namedDocument
	if err := findAll(ctx, r.exercises, bson.M{}, &docs); err != nil {
		return err
	}
	existing := make(map[string]int64, len(docs))
	for _, d := range docs {
		existing[d.Name] = d.ID
	}

	var inserts []domain.Exercise
	for _, e := range exercises {
		exercise := domain.Exercise{
			Name:           e.Name,
			TargetMuscle:   e.TargetMuscle,
			DifficultyTier: e.DifficultyTier,
		}
		if e.EquipmentName != "" {
			id, ok := equipmentIDs[e.EquipmentName]
			if !ok {
				return fmt.Errorf("exercise %q references unknown equipment %q", e.Name, e.EquipmentName)
			}
			exercise.EquipmentID = &id
		}

		id, ok := existing[e.Name]
		if !ok {
			inserts = append(inserts, exercise)
			continue
		}
		delete(existing, e.Name)
		exercise.ID = id
		if _, err := r.exercises.ReplaceOne(ctx, bson.M{"_id": id}, exercise); err != nil {
			return err
		}
	}

	if len(existing) > 0 {
		stale := make([]int64, 0, len(existing))
		for _, id := range existing {
			stale = append(stale, id)
		}
		if _, err := r.exercises.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": stale}}); err != nil {
			return err
		}
	}

	if len(inserts) == 0 {
		return nil
	}
	first, err := reserveIDs(ctx, r.counters, exerciseCollectionName, len(inserts))
	if err != nil {
		return err
	}
	docsToInsert := make([]interface{}, len(inserts))
	for i := range inserts {
		inserts[i].ID = first + int64(i)
		docsToInsert[i] = inserts[i]
	}
	_, err = r.exercises.InsertMany(ctx, docsToInsert)
	return err
}

// dropStale removes the stale ids from every profile's reference list, then
// deletes the documents themselves.
func (r *mongoCatalogRepository) dropStale(ctx context.Context, collection *mongo.Collection, profileField string, stale []int64) error {
	if len(stale) == 0 {
		return nil
	}
	filter := bson.M{profileField: bson.M{"$in": stale}}
	if _, err := r.profiles.UpdateMany(ctx, filter, bson.M{"$pull": filter}); err != nil {
		return err
	}
	_, err := collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": stale}})
	return err
}
