package mongo

import (
	"context"
	"errors"
	"time"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkInCollectionName = "checkins"

// mongoCheckInRepository implements repository.CheckInRepository.
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new CheckIn repository backed by MongoDB.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Create inserts a new check-in. The unique (goalId, date) index turns a
// same-day duplicate into repository.ErrConflict.
func (r *mongoCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	if checkIn.GoalID == primitive.NilObjectID || checkIn.Date == "" {
		return primitive.NilObjectID, errors.New("check-in goal ID and date are required")
	}

	checkIn.ID = primitive.NewObjectID()
	checkIn.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, checkIn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByGoalID returns check-ins for a goal, newest date first.
func (r *mongoCheckInRepository) GetByGoalID(ctx context.Context, goalID primitive.ObjectID, limit int) ([]domain.CheckIn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"goalId": goalID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkIns []domain.CheckIn
	if err := cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// ExistsForDate reports whether a check-in already exists for the goal on the
// given date ("YYYY-MM-DD").
func (r *mongoCheckInRepository) ExistsForDate(ctx context.Context, goalID primitive.ObjectID, date string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"goalId": goalID, "date": date})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureCheckInIndexes creates the unique (goalId, date) index that enforces
// one check-in per goal per day.
func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "goalId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
