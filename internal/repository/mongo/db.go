package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"swimteam/swimlog/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary so an unreachable server fails at startup, not on
	// the first request.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every repository to collections of db.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Profiles:   NewMongoProfileRepository(db),
		Training:   NewMongoTrainingRepository(db),
		RHR:        NewMongoRestingHeartRateRepository(db),
		Body:       NewMongoBodyMetricRepository(db),
		Comments:   NewMongoCommentRepository(db),
		Plans:      NewMongoPlanRepository(db),
		Goals:      NewMongoGoalRepository(db),
		Settings:   NewMongoSettingsRepository(db),
		MagicLinks: NewMongoMagicLinkRepository(db),
		Exports:    NewMongoExportRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Call it once at
// startup or from the migrate command.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{profileCollectionName, EnsureProfileIndexes},
		{trainingCollectionName, EnsureTrainingIndexes},
		{rhrCollectionName, EnsureRestingHeartRateIndexes},
		{bodyCollectionName, EnsureBodyMetricIndexes},
		{commentCollectionName, EnsureCommentIndexes},
		{goalCollectionName, EnsureGoalIndexes},
		{magicLinkCollectionName, EnsureMagicLinkIndexes},
		{exportCollectionName, EnsureExportIndexes},
	}
	var errs []error
	for _, s := range steps {
		if err := s.ensure(ctx, db.Collection(s.collection)); err != nil {
			errs = append(errs, fmt.Errorf("indexes for %s: %w", s.collection, err))
		}
	}
	return errors.Join(errs...)
}

func newID() string {
	return uuid.NewString()
}

// dateFilter adds an inclusive range on a YYYY-MM-DD string field. Dates
// compare lexically, so string bounds are date bounds.
func dateFilter(filter bson.M, field string, r repository.DateRange) bson.M {
	cond := bson.M{}
	if r.From != "" {
		cond["$gte"] = r.From
	}
	if r.To != "" {
		cond["$lte"] = r.To
	}
	if len(cond) > 0 {
		filter[field] = cond
	}
	return filter
}

// byDateAsc orders by the date field, then insertion time for stable output.
func byDateAsc(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: 1}, {Key: "createdAt", Value: 1}})
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
