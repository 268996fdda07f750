package events

import (
	"testing"
	"time"
)

func TestHubReplaysLastEventOnSubscribe(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Type: TypeSignedIn, UserID: "42", Email: "kai@example.com"})

	sub, last, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if last == nil || last.Type != TypeSignedIn || last.UserID != "42" {
		t.Fatalf("expected replay of signed_in for user 42, got %+v", last)
	}
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub()

	sub, last, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()
	if last != nil {
		t.Fatalf("expected no replay before first event, got %+v", last)
	}

	hub.Publish(Event{Type: TypeSignedOut, UserID: "42"})

	select {
	case got := <-sub.Events():
		if got.Type != TypeSignedOut {
			t.Fatalf("expected signed_out, got %s", got.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHubClosedSubscriptionStopsDelivery(t *testing.T) {
	hub := NewHub()

	sub, _, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub.Close()
	sub.Close()

	hub.Publish(Event{Type: TypeSignedIn, UserID: "7"})

	select {
	case got := <-sub.Events():
		t.Fatalf("expected no delivery after close, got %+v", got)
	default:
	}
}

func TestHubCloseDrainsSubscribersAndStopsIntake(t *testing.T) {
	hub := NewHub()

	sub, _, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	hub.Publish(Event{Type: TypeSignedIn, UserID: "42"})

	hub.Close()
	hub.Close()

	var seen []Event
	for event := range sub.Events() {
		seen = append(seen, event)
	}
	if len(seen) != 1 || seen[0].Type != TypeSignedIn {
		t.Fatalf("expected buffered event then channel close, got %+v", seen)
	}

	hub.Publish(Event{Type: TypeSignedOut, UserID: "42"})

	if _, _, err := hub.Subscribe(); err == nil {
		t.Fatal("expected subscribe after close to fail")
	}
}
