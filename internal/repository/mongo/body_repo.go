package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

const bodyCollectionName = "body_metrics_log"

// mongoBodyMetricRepository implements repository.BodyMetricRepository
type mongoBodyMetricRepository struct {
	collection *mongo.Collection
}

func NewMongoBodyMetricRepository(db *mongo.Database) repository.BodyMetricRepository {
	return &mongoBodyMetricRepository{
		collection: db.Collection(bodyCollectionName),
	}
}

func (r *mongoBodyMetricRepository) Create(ctx context.Context, e *domain.BodyMetricEntry) (string, error) {
	if e.UserID == "" || e.Date == "" {
		return "", errors.New("body metric requires userId and date")
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

func (r *mongoBodyMetricRepository) GetByID(ctx context.Context, id string) (*domain.BodyMetricEntry, error) {
	var e domain.BodyMetricEntry
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// Update replaces date and measurements. A nil measurement is removed.
func (r *mongoBodyMetricRepository) Update(ctx context.Context, e *domain.BodyMetricEntry) error {
	e.UpdatedAt = time.Now().UTC()
	set := bson.M{"entryDate": e.Date, "updatedAt": e.UpdatedAt}
	unset := bson.M{}
	if e.HeightCm != nil {
		set["heightCm"] = *e.HeightCm
	} else {
		unset["heightCm"] = ""
	}
	if e.WeightKg != nil {
		set["weightKg"] = *e.WeightKg
	} else {
		unset["weightKg"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
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

func (r *mongoBodyMetricRepository) ListByUser(ctx context.Context, userID string, dr repository.DateRange) ([]domain.BodyMetricEntry, error) {
	filter := dateFilter(bson.M{"userId": userID}, "entryDate", dr)
	cursor, err := r.collection.Find(ctx, filter, byDateAsc("entryDate"))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.BodyMetricEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func EnsureBodyMetricIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "entryDate", Value: 1}},
	})
	return err
}
