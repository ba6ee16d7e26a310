package db

import (
	"context"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client

	UsersCollection      *mongo.Collection
	ProductsCollection   *mongo.Collection
	CartsCollection      *mongo.Collection
	OrdersCollection     *mongo.Collection
	ActivitiesCollection *mongo.Collection
)

// Init connects to MongoDB and binds the collection handles. Called once
// from main; packages that only link db stay inert until then.
func Init(ctx context.Context) error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "brewhouse"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	Client = client

	database := client.Database(dbName)
	UsersCollection = database.Collection("users")
	ProductsCollection = database.Collection("products")
	CartsCollection = database.Collection("carts")
	OrdersCollection = database.Collection("orders")
	ActivitiesCollection = database.Collection("activities")

	return nil
}
