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

const settingsCollectionName = "settings"

type mongoSettingsRepository struct {
	collection *mongo.Collection
}

func NewMongoSettingsRepository(db *mongo.Database) repository.SettingsRepository {
	return &mongoSettingsRepository{
		collection: db.Collection(settingsCollectionName),
	}
}

func (r *mongoSettingsRepository) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	var s domain.Settings
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *mongoSettingsRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.UserID}, s, options.Replace().SetUpsert(true))
	return err
}
