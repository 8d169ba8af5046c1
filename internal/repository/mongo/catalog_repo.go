package mongo

import (
	"context"
	"errors"
	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	exerciseCollectionName  = "exercises"
	equipmentCollectionName = "equipment"
	injuryCollectionName    = "injuries"
)

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	client    *mongo.Client
	exercises *mongo.Collection
	equipment *mongo.Collection
	injuries  *mongo.Collection
	profiles  *mongo.Collection
	counters  *mongo.Collection
}

// NewMongoCatalogRepository creates a new catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return newMongoCatalogRepository(db)
}

// NewMongoCatalogSeeder creates a catalog seeder backed by MongoDB. Like
// workout batches, it needs a replica set for transactions.
func NewMongoCatalogSeeder(db *mongo.Database) repository.CatalogSeeder {
	return newMongoCatalogRepository(db)
}

func newMongoCatalogRepository(db *mongo.Database) *mongoCatalogRepository {
	return &mongoCatalogRepository{
		client:    db.Client(),
		exercises: db.Collection(exerciseCollectionName),
		equipment: db.Collection(equipmentCollectionName),
		injuries:  db.Collection(injuryCollectionName),
		profiles:  db.Collection(profileCollectionName),
		counters:  db.Collection(counterCollectionName),
	}
}

// ListExercises returns the whole catalog ordered by id, with equipment resolved.
func (r *mongoCatalogRepository) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	if err := findAll(ctx, r.exercises, bson.M{}, &exercises); err != nil {
		return nil, err
	}

	equipment, err := r.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Equipment, len(equipment))
	for _, e := range equipment {
		byID[e.ID] = e
	}
	for i := range exercises {
		if id := exercises[i].EquipmentID; id != nil {
			if e, ok := byID[*id]; ok {
				exercises[i].Equipment = &e
			}
		}
	}
	return exercises, nil
}

func (r *mongoCatalogRepository) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var equipment []domain.Equipment
	if err := findAll(ctx, r.equipment, bson.M{}, &equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *mongoCatalogRepository) ListInjuries(ctx context.Context) ([]domain.Injury, error) {
	var injuries []domain.Injury
	if err := findAll(ctx, r.injuries, bson.M{}, &injuries); err != nil {
		return nil, err
	}
	return injuries, nil
}

// GetEquipmentByName looks up a single equipment entry by its exact name.
func (r *mongoCatalogRepository) GetEquipmentByName(ctx context.Context, name string) (*domain.Equipment, error) {
	var equipment domain.Equipment
	err := r.equipment.FindOne(ctx, bson.M{"name": name}).Decode(&equipment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

// GetEquipmentByIDs returns the equipment entries matching ids. Unknown ids are skipped.
func (r *mongoCatalogRepository) GetEquipmentByIDs(ctx context.Context, ids []int64) ([]domain.Equipment, error) {
	equipment := []domain.Equipment{}
	if len(ids) == 0 {
		return equipment, nil
	}
	if err := findAll(ctx, r.equipment, bson.M{"_id": bson.M{"$in": ids}}, &equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// GetInjuriesByIDs returns the injuries matching ids. Unknown ids are skipped.
func (r *mongoCatalogRepository) GetInjuriesByIDs(ctx context.Context, ids []int64) ([]domain.Injury, error) {
	injuries := []domain.Injury{}
	if len(ids) == 0 {
		return injuries, nil
	}
	if err := findAll(ctx, r.injuries, bson.M{"_id": bson.M{"$in": ids}}, &injuries); err != nil {
		return nil, err
	}
	return injuries, nil
}

// findAll runs filter against collection sorted by _id and decodes every document into out.
func findAll(ctx context.Context, collection *mongo.Collection, filter bson.M, out interface{}) error {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}

// EnsureCatalogIndexes creates necessary indexes for the catalog collections.
func EnsureCatalogIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	if _, err := db.Collection(exerciseCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "equipmentId", Value: 1}}, Options: options.Index()},
	}); err != nil {
		return err
	}
	if _, err := db.Collection(equipmentCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	_, err := db.Collection(injuryCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	})
	return err
}
