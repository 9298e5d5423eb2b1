package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

const planCollectionName = "technique_plans"

// planDocument keeps data undecoded so plans written in any older layout,
// or with a non-object body, still load.
type planDocument struct {
	SwimmerID string        `bson:"_id"`
	Data      bson.RawValue `bson:"data"`
	UpdatedBy string        `bson:"updatedBy,omitempty"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Get loads the plan of a swimmer with data decoded to plain JSON values.
func (r *mongoPlanRepository) Get(ctx context.Context, swimmerID string) (*domain.TechniquePlan, error) {
	var doc planDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": swimmerID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	data, err := plainJSON(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("decode plan of %s: %w", swimmerID, err)
	}
	return &domain.TechniquePlan{
		SwimmerID: doc.SwimmerID,
		Data:      data,
		UpdatedBy: doc.UpdatedBy,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Upsert replaces the whole plan document of the swimmer.
func (r *mongoPlanRepository) Upsert(ctx context.Context, p *domain.TechniquePlan) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.SwimmerID}, p, options.Replace().SetUpsert(true))
	return err
}

// plainJSON turns a BSON value into the types encoding/json produces
// (map[string]any, []any, float64, string, bool, nil).
func plainJSON(v bson.RawValue) (any, error) {
	if len(v.Value) == 0 {
		return nil, nil
	}
	ext, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		V any `json:"v"`
	}
	if err := json.Unmarshal(ext, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.V, nil
}
