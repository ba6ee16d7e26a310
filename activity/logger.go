package activity

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"brewhouse/models"
)

// Sink persists one activity record.
type Sink interface {
	Write(ctx context.Context, a models.Activity) error
}

// Publisher fans an activity out to live listeners (redis channel,
// websocket hub). Best-effort like everything else here.
type Publisher interface {
	Publish(a models.Activity)
}

// Logger is a fire-and-forget audit writer. Log never blocks and never
// returns an error; when the queue is full the record is dropped. At-most-
// once, strictly non-blocking: a broken sink cannot fail a status mutation.
type Logger struct {
	queue      chan models.Activity
	sink       Sink
	publishers []Publisher
	done       chan struct{}
}

func NewLogger(sink Sink, publishers ...Publisher) *Logger {
	return &Logger{
		queue:      make(chan models.Activity, 256),
		sink:       sink,
		publishers: publishers,
		done:       make(chan struct{}),
	}
}

// Log enqueues an audit record. Drops it when the queue is full.
func (l *Logger) Log(activityType, message string, data map[string]any) {
	a := models.Activity{
		Type:      activityType,
		Message:   message,
		Timestamp: time.Now(),
		Data:      data,
	}
	select {
	case l.queue <- a:
	default:
		log.Println("activity queue full, dropping:", activityType)
	}
}

// Run drains the queue until Stop. Sink failures are logged and discarded.
func (l *Logger) Run() {
	for {
		select {
		case a := <-l.queue:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := l.sink.Write(ctx, a); err != nil {
				log.Println("activity write failed:", err)
			}
			cancel()
			for _, p := range l.publishers {
				p.Publish(a)
			}
		case <-l.done:
			return
		}
	}
}

func (l *Logger) Stop() {
	close(l.done)
}

// MarshalActivity is shared by the redis and websocket publishers.
func MarshalActivity(a models.Activity) []byte {
	b, err := json.Marshal(a)
	if err != nil {
		log.Println("activity marshal failed:", err)
		return nil
	}
	return b
}
