// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
// CreateBatch uses multi-document transactions, so the deployment must be a
// replica set or sharded cluster.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		client:     db.Client(),
		collection: db.Collection(workoutCollectionName),
		counters:   db.Collection(counterCollectionName),
	}
}

// CreateBatch inserts all records inside a single transaction.
func (r *mongoWorkoutRepository) CreateBatch(ctx context.Context, records []domain.WorkoutRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if rec.UserID == 0 || rec.Date.IsZero() {
			return errors.New("workout record requires userId and date")
		}
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	staged := make([]domain.WorkoutRecord, len(records))
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		first, err := reserveIDs(sc, r.counters, workoutCollectionName, len(records))
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		docs := make([]interface{}, len(records))
		for i, rec := range records {
			rec.ID = first + int64(i)
			rec.CreatedAt = now
			staged[i] = rec
			docs[i] = rec
		}
		_, err = r.collection.InsertMany(sc, docs)
		return nil, err
	})
	if err != nil {
		return err
	}
	copy(records, staged)
	return nil
}

// GetByID retrieves a single workout record by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id int64) (*domain.WorkoutRecord, error) {
	var record domain.WorkoutRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListByUser retrieves all workout records of a user ordered by date.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutRecord, error) {
	records := []domain.WorkoutRecord{}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		// Not unique: overlapping dates from one plan are stored as distinct rows.
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index(),
	})
	return err
}
