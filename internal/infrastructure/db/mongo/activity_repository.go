package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

const collectionActivity = "cart_activity"

// ActivityRepository persists cart mutation audit events.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *domain.CartActivity) error {
	doc := bson.M{
		"user_id":      activity.UserID,
		"action":       string(activity.Action),
		"timestamp":    activity.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if activity.ProductID != "" {
		doc["product_id"] = activity.ProductID
	}
	if activity.Quantity > 0 {
		doc["quantity"] = activity.Quantity
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
