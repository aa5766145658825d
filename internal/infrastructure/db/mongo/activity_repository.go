package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

const activityCollection = "activity_log"

// ActivityRepository appends audit records to the activity_log collection.
// It has no read path: the application never rebuilds state from it.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type mongoActivity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Kind      string             `bson:"kind"`
	AccountID int64              `bson:"account_id,omitempty"`
	Email     string             `bson:"email,omitempty"`
	SessionID string             `bson:"session_id,omitempty"`
	Subject   string             `bson:"subject,omitempty"`
	At        primitive.DateTime `bson:"at"`
}

// EnsureIndexes creates the lookup indexes operators query by.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "at", Value: -1}}, Options: options.Index().SetName("kind_at")},
	})
	if err != nil {
		return fmt.Errorf("create activity indexes: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	if _, err := r.coll.InsertOne(ctx, toMongoActivity(a)); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func toMongoActivity(a *domain.Activity) mongoActivity {
	return mongoActivity{
		Kind:      string(a.Kind),
		AccountID: a.AccountID,
		Email:     a.Email,
		SessionID: a.SessionID,
		Subject:   a.Subject,
		At:        primitive.NewDateTimeFromTime(a.At),
	}
}
