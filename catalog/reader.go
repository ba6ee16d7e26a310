package catalog

import (
	"context"
	"errors"

	"brewhouse/db"
	"brewhouse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reader is the catalog lookup consumed by the cart and reporting layers.
// Returns (nil, nil) when the product does not exist.
type Reader interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

type MongoReader struct{}

func (MongoReader) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
