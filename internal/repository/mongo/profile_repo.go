package mongo

import (
	"context"
	"errors"
	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "user_profiles"

// profileDocument is the stored shape of a profile: equipment and injuries
// are kept as references and resolved on read.
type profileDocument struct {
	domain.Profile `bson:",inline"`
	EquipmentIDs   []int64 `bson:"equipmentIds"`
	InjuryIDs      []int64 `bson:"injuryIds"`
}

type mongoProfileRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	catalog    repository.CatalogRepository
}

// NewMongoProfileRepository creates a new Profile repository. The catalog
// repository is used to resolve equipment and injury references.
func NewMongoProfileRepository(db *mongo.Database, catalog repository.CatalogRepository) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
		counters:   db.Collection(counterCollectionName),
		catalog:    catalog,
	}
}

// Upsert creates the user's profile or replaces the existing one.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) (int64, error) {
	if profile.UserID == 0 {
		return 0, errors.New("profile requires userId")
	}

	now := time.Now().UTC()
	var existing profileDocument
	err := r.collection.FindOne(ctx, bson.M{"userId": profile.UserID}).Decode(&existing)
	switch {
	case err == nil:
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, mongo.ErrNoDocuments):
		id, err := reserveIDs(ctx, r.counters, profileCollectionName, 1)
		if err != nil {
			return 0, err
		}
		profile.ID = id
		profile.CreatedAt = now
	default:
		return 0, err
	}
	profile.UpdatedAt = now

	doc := profileDocument{
		Profile:      *profile,
		EquipmentIDs: profile.EquipmentIDs(),
		InjuryIDs:    profile.InjuryIDs(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"userId": profile.UserID}, doc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	return profile.ID, nil
}

// GetByUserID returns the user's profile with equipment and injuries resolved.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	profile := doc.Profile
	if profile.Equipment, err = r.catalog.GetEquipmentByIDs(ctx, doc.EquipmentIDs); err != nil {
		return nil, err
	}
	if profile.Injuries, err = r.catalog.GetInjuriesByIDs(ctx, doc.InjuryIDs); err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfileIndexes creates necessary indexes. Call during startup.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
