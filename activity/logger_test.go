package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"brewhouse/models"
)

type chanSink struct {
	got chan models.Activity
	err error
}

func (s *chanSink) Write(_ context.Context, a models.Activity) error {
	if s.err != nil {
		return s.err
	}
	select {
	case s.got <- a:
	default:
	}
	return nil
}

type chanPublisher struct {
	got chan models.Activity
}

func (p *chanPublisher) Publish(a models.Activity) {
	select {
	case p.got <- a:
	default:
	}
}

func TestLoggerDeliversToSinkAndPublishers(t *testing.T) {
	sink := &chanSink{got: make(chan models.Activity, 1)}
	pub := &chanPublisher{got: make(chan models.Activity, 1)}

	l := NewLogger(sink, pub)
	go l.Run()
	defer l.Stop()

	l.Log(models.ActivityNewOrder, "order placed", map[string]any{"orderId": "o1"})

	select {
	case a := <-sink.got:
		if a.Type != models.ActivityNewOrder {
			t.Fatalf("sink got type %q", a.Type)
		}
		if a.Data["orderId"] != "o1" {
			t.Fatalf("sink got data %#v", a.Data)
		}
		if a.Timestamp.IsZero() {
			t.Fatal("timestamp not stamped")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sink never received the activity")
	}

	select {
	case a := <-pub.got:
		if a.Message != "order placed" {
			t.Fatalf("publisher got message %q", a.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publisher never received the activity")
	}
}

func TestLoggerLogNeverBlocks(t *testing.T) {
	// no Run goroutine: the queue fills and further logs must drop, not hang
	l := NewLogger(&chanSink{got: make(chan models.Activity, 1)})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			l.Log(models.ActivityUserLogin, "login", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked on a full queue")
	}
}

func TestLoggerSinkFailureIsSwallowed(t *testing.T) {
	sink := &chanSink{err: errors.New("mongo down")}
	pub := &chanPublisher{got: make(chan models.Activity, 1)}

	l := NewLogger(sink, pub)
	go l.Run()
	defer l.Stop()

	l.Log(models.ActivityOrderStatusChange, "status changed", nil)

	// publishers still run after a sink failure
	select {
	case <-pub.got:
	case <-time.After(2 * time.Second):
		t.Fatal("publish skipped after sink failure")
	}

	// and a second log still goes through
	l.Log(models.ActivityOrderStatusChange, "status changed again", nil)
	select {
	case <-pub.got:
	case <-time.After(2 * time.Second):
		t.Fatal("logger wedged after sink failure")
	}
}

func TestLoggerStop(t *testing.T) {
	l := NewLogger(&chanSink{got: make(chan models.Activity, 1)})
	stopped := make(chan struct{})
	go func() {
		l.Run()
		close(stopped)
	}()

	l.Stop()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
