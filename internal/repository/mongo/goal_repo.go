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

const goalCollectionName = "goals"

// mongoGoalRepository implements repository.GoalRepository.
type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a new Goal repository backed by MongoDB.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Create inserts a new goal into the database.
func (r *mongoGoalRepository) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	if goal.Title == "" || goal.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("goal title and user ID are required")
	}

	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a goal by its ID.
func (r *mongoGoalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// GetByUserID retrieves all goals belonging to a user, newest first.
func (r *mongoGoalRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []domain.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// Update replaces the mutable fields of an existing goal.
func (r *mongoGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	update := bson.M{"$set": bson.M{
		"title":                 goal.Title,
		"description":           goal.Description,
		"category":              goal.Category,
		"frequency":             goal.Frequency,
		"targetDays":            goal.TargetDays,
		"goalType":              goal.GoalType,
		"challengeDurationDays": goal.ChallengeDurationDays,
		"targetCheckins":        goal.TargetCheckins,
		"updatedAt":             time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": goal.ID, "userId": goal.UserID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a goal. The userID filter enforces ownership at the DB level.
func (r *mongoGoalRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGoalIndexes creates the userId index for goal listings.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
