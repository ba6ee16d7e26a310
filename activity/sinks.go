package activity

import (
	"context"
	"log"

	"brewhouse/db"
	"brewhouse/models"
	"brewhouse/rdx"
)

// MongoSink appends activities to the activities collection.
type MongoSink struct{}

func (MongoSink) Write(ctx context.Context, a models.Activity) error {
	_, err := db.ActivitiesCollection.InsertOne(ctx, a)
	return err
}

// RedisPublisher pushes each activity onto the activity_events channel for
// any out-of-process listeners.
type RedisPublisher struct{}

func (RedisPublisher) Publish(a models.Activity) {
	payload := MarshalActivity(a)
	if payload == nil {
		return
	}
	if err := rdx.RdxPublish("activity_events", payload); err != nil {
		log.Println("activity publish failed:", err)
	}
}

// HubPublisher forwards activities to connected websocket clients.
type HubPublisher struct {
	Hub *Hub
}

func (p HubPublisher) Publish(a models.Activity) {
	if payload := MarshalActivity(a); payload != nil {
		p.Hub.Broadcast(payload)
	}
}
