package reports

import (
	"context"
	"time"

	"brewhouse/db"
	"brewhouse/models"

	"go.mongodb.org/mongo-driver/bson"
)

type MongoOrderSource struct{}

func (MongoOrderSource) FindConfirmed(ctx context.Context, since *time.Time) ([]models.Order, error) {
	filter := bson.M{
		"paymentStatus": models.PaymentPaid,
		"orderStatus":   bson.M{"$ne": models.OrderCancelled},
	}
	if since != nil {
		filter["createdAt"] = bson.M{"$gte": *since}
	}

	cursor, err := db.OrdersCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
