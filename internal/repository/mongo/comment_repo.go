package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

const commentCollectionName = "weekly_comments"

type mongoCommentRepository struct {
	collection *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &mongoCommentRepository{
		collection: db.Collection(commentCollectionName),
	}
}

func (r *mongoCommentRepository) Get(ctx context.Context, swimmerID, weekStart string) (*domain.WeeklyComment, error) {
	var c domain.WeeklyComment
	filter := bson.M{"swimmerId": swimmerID, "weekStart": weekStart}
	if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Upsert writes the comment for (SwimmerID, WeekStart); last write wins.
func (r *mongoCommentRepository) Upsert(ctx context.Context, c *domain.WeeklyComment) error {
	if c.SwimmerID == "" || c.WeekStart == "" {
		return errors.New("comment requires swimmerId and weekStart")
	}
	c.UpdatedAt = time.Now().UTC()
	filter := bson.M{"swimmerId": c.SwimmerID, "weekStart": c.WeekStart}
	update := bson.M{"$set": bson.M{
		"coachId":   c.CoachID,
		"comment":   c.Text,
		"updatedAt": c.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func EnsureCommentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "swimmerId", Value: 1}, {Key: "weekStart", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
