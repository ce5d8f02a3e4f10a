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

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new WorkoutPlan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.GoalID == primitive.NilObjectID || plan.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan goal ID and user ID are required")
	}

	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetActiveByGoalID returns the newest non-superseded plan for a goal.
func (r *mongoPlanRepository) GetActiveByGoalID(ctx context.Context, goalID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"goalId": goalID, "superseded": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// MarkSuperseded flips the superseded flag on a plan.
func (r *mongoPlanRepository) MarkSuperseded(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"superseded": true}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkStaleByUserID flags every active plan of a user for regeneration.
// Called when the user's profile changes.
func (r *mongoPlanRepository) MarkStaleByUserID(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"userId": userID, "superseded": false}
	update := bson.M{"$set": bson.M{"stale": true}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// ListStale returns up to limit stale, non-superseded plans for the
// background regeneration sweep.
func (r *mongoPlanRepository) ListStale(ctx context.Context, limit int) ([]domain.WorkoutPlan, error) {
	filter := bson.M{"stale": true, "superseded": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WorkoutPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// EnsurePlanIndexes creates the lookup indexes for active and stale plans.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "goalId", Value: 1}, {Key: "superseded", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "stale", Value: 1}, {Key: "superseded", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, models)
	return err
}
