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

const magicLinkCollectionName = "magic_links"

type mongoMagicLinkRepository struct {
	collection *mongo.Collection
}

func NewMongoMagicLinkRepository(db *mongo.Database) repository.MagicLinkRepository {
	return &mongoMagicLinkRepository{
		collection: db.Collection(magicLinkCollectionName),
	}
}

func (r *mongoMagicLinkRepository) Create(ctx context.Context, l *domain.MagicLink) error {
	if l.ID == "" {
		l.ID = newID()
	}
	l.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, l)
	return err
}

func (r *mongoMagicLinkRepository) GetByID(ctx context.Context, id string) (*domain.MagicLink, error) {
	var l domain.MagicLink
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// MarkUsed sets usedAt only if it is still unset, so two concurrent
// callbacks cannot both redeem the link.
func (r *mongoMagicLinkRepository) MarkUsed(ctx context.Context, id string, at time.Time) error {
	filter := bson.M{"_id": id, "usedAt": bson.M{"$exists": false}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"usedAt": at.UTC()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMagicLinkRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": before.UTC()}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureMagicLinkIndexes lets MongoDB drop links a day after they expire.
func EnsureMagicLinkIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32((24 * time.Hour).Seconds())),
	})
	return err
}
