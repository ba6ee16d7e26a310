package cart

import (
	"context"
	"errors"

	"brewhouse/db"
	"brewhouse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps carts in the carts collection, keyed by userId.
type MongoStore struct{}

func (MongoStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (MongoStore) Upsert(ctx context.Context, cart *models.Cart) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.CartsCollection.ReplaceOne(ctx, bson.M{"userId": cart.UserID}, cart, opts)
	return err
}

func (MongoStore) Delete(ctx context.Context, userID string) error {
	_, err := db.CartsCollection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}
