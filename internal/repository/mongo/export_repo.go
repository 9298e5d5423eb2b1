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

const exportCollectionName = "exports"

// mongoExportRepository implements repository.ExportRepository
type mongoExportRepository struct {
	collection *mongo.Collection
}

// NewMongoExportRepository creates a new export metadata repository backed by MongoDB.
func NewMongoExportRepository(db *mongo.Database) repository.ExportRepository {
	return &mongoExportRepository{
		collection: db.Collection(exportCollectionName),
	}
}

// Create inserts new export metadata into the database.
func (r *mongoExportRepository) Create(ctx context.Context, e *domain.ExportRecord) (string, error) {
	if e.SwimmerID == "" || e.ObjectKey == "" {
		return "", errors.New("export requires swimmerId and objectKey")
	}
	e.ID = newID()
	e.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

// ListBySwimmer returns the newest exports of a swimmer.
func (r *mongoExportRepository) ListBySwimmer(ctx context.Context, swimmerID string, limit int) ([]domain.ExportRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"swimmerId": swimmerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.ExportRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureExportIndexes creates necessary indexes for the exports collection.
func EnsureExportIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "swimmerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			// S3 keys are unique within the bucket
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
