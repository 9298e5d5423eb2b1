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

const rhrCollectionName = "resting_hr_log"

// mongoRestingHeartRateRepository implements repository.RestingHeartRateRepository
type mongoRestingHeartRateRepository struct {
	collection *mongo.Collection
}

func NewMongoRestingHeartRateRepository(db *mongo.Database) repository.RestingHeartRateRepository {
	return &mongoRestingHeartRateRepository{
		collection: db.Collection(rhrCollectionName),
	}
}

// Upsert writes the value for (UserID, Date), replacing an earlier value
// for the same morning. The stored id is written back to e.
func (r *mongoRestingHeartRateRepository) Upsert(ctx context.Context, e *domain.RestingHeartRateEntry) error {
	if e.UserID == "" || e.Date == "" {
		return errors.New("resting heart rate requires userId and date")
	}
	now := time.Now().UTC()
	filter := bson.M{"userId": e.UserID, "entryDate": e.Date}
	update := bson.M{
		"$set": bson.M{
			"restingHeartRate": e.BPM,
			"updatedAt":        now,
		},
		"$setOnInsert": bson.M{
			"_id":       newID(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.RestingHeartRateEntry
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return err
	}
	*e = stored
	return nil
}

func (r *mongoRestingHeartRateRepository) GetByID(ctx context.Context, id string) (*domain.RestingHeartRateEntry, error) {
	var e domain.RestingHeartRateEntry
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// Update changes date and value of an existing row. Moving it onto a date
// that already has a value fails with ErrDuplicate.
func (r *mongoRestingHeartRateRepository) Update(ctx context.Context, e *domain.RestingHeartRateEntry) error {
	e.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"entryDate":        e.Date,
			"restingHeartRate": e.BPM,
			"updatedAt":        e.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": e.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRestingHeartRateRepository) ListByUser(ctx context.Context, userID string, dr repository.DateRange) ([]domain.RestingHeartRateEntry, error) {
	filter := dateFilter(bson.M{"userId": userID}, "entryDate", dr)
	cursor, err := r.collection.Find(ctx, filter, byDateAsc("entryDate"))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.RestingHeartRateEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureRestingHeartRateIndexes enforces one value per user per date.
func EnsureRestingHeartRateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "entryDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
