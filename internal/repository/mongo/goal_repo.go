package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

const goalCollectionName = "goals_yearly"

type mongoGoalRepository struct {
	collection *mongo.Collection
}

func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

func (r *mongoGoalRepository) Get(ctx context.Context, userID string, year int) (*domain.SeasonGoal, error) {
	var g domain.SeasonGoal
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID, "seasonYear": year}).Decode(&g); err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *mongoGoalRepository) Upsert(ctx context.Context, g *domain.SeasonGoal) error {
	g.UpdatedAt = time.Now().UTC()
	filter := bson.M{"userId": g.UserID, "seasonYear": g.SeasonYear}
	update := bson.M{"$set": bson.M{"goalText": g.GoalText, "updatedAt": g.UpdatedAt}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "seasonYear", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
