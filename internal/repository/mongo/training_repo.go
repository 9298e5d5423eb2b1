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

const trainingCollectionName = "training_log"

// mongoTrainingRepository implements repository.TrainingRepository
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new training log repository.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

// Create inserts a new training entry.
func (r *mongoTrainingRepository) Create(ctx context.Context, e *domain.TrainingEntry) (string, error) {
	if e.UserID == "" || e.Date == "" {
		return "", errors.New("training entry requires userId and date")
	}
	e.ID = newID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

// GetByID retrieves a single training entry.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id string) (*domain.TrainingEntry, error) {
	var e domain.TrainingEntry
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// Update replaces the editable fields of an existing entry.
func (r *mongoTrainingRepository) Update(ctx context.Context, e *domain.TrainingEntry) error {
	e.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"trainingDate":    e.Date,
			"sessionType":     e.Category,
			"durationMinutes": e.DurationMinutes,
			"heartRate":       e.HeartRate,
			"effortColor":     e.Effort,
			"complexity":      e.Complexity,
			"details":         e.Details,
			"updatedAt":       e.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": e.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's entries in r, oldest first.
func (r *mongoTrainingRepository) ListByUser(ctx context.Context, userID string, dr repository.DateRange) ([]domain.TrainingEntry, error) {
	filter := dateFilter(bson.M{"userId": userID}, "trainingDate", dr)
	cursor, err := r.collection.Find(ctx, filter, byDateAsc("trainingDate"))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.TrainingEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecent returns the newest limit entries of a user.
func (r *mongoTrainingRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.TrainingEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "trainingDate", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.TrainingEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureTrainingIndexes creates necessary indexes for the training log.
func EnsureTrainingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Every read is a per-user date range
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "trainingDate", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
