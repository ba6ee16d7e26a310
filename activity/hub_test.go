package activity

import (
	"bytes"
	"testing"
	"time"
)

func TestHubBroadcastReachesClients(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := &client{send: make(chan []byte, 1)}
	h.register <- c

	h.Broadcast([]byte("ping"))

	select {
	case msg := <-c.send:
		if !bytes.Equal(msg, []byte("ping")) {
			t.Fatalf("got %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("registered client never received the broadcast")
	}
}

func TestHubDropDoesNotBlockAfterStop(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &client{send: make(chan []byte, 1)}
	h.register <- c
	h.Stop()

	released := make(chan struct{})
	go func() {
		h.drop(c)
		close(released)
	}()

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("drop blocked after hub shutdown")
	}
}
