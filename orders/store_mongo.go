package orders

import (
	"context"
	"errors"

	"brewhouse/db"
	"brewhouse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoStore struct{}

func (MongoStore) Insert(ctx context.Context, o *models.Order) error {
	_, err := db.OrdersCollection.InsertOne(ctx, o)
	return err
}

func (MongoStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return findOrders(ctx, bson.M{"userId": userID})
}

func (MongoStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return findOrders(ctx, bson.M{})
}

func findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
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

func (MongoStore) Update(ctx context.Context, o *models.Order) error {
	_, err := db.OrdersCollection.ReplaceOne(ctx, bson.M{"orderId": o.OrderID}, o)
	return err
}

func (MongoStore) Delete(ctx context.Context, orderID string) error {
	_, err := db.OrdersCollection.DeleteOne(ctx, bson.M{"orderId": orderID})
	return err
}
