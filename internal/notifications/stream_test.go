package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type fakeLister struct {
	mu         sync.Mutex
	snapshots  map[string][]*Notification
	beforeList func()
}

func (f *fakeLister) ListByUser(_ context.Context, userID string) ([]*Notification, error) {
	if f.beforeList != nil {
		f.beforeList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[userID], nil
}

func (f *fakeLister) set(userID string, list []*Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[userID] = list
}

func receive(t *testing.T, s *Stream) []*Notification {
	t.Helper()
	select {
	case snapshot := <-s.C:
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestHub_SubscribeDeliversInitialSnapshot(t *testing.T) {
	lister := &fakeLister{snapshots: map[string][]*Notification{
		"u-1": {{ID: "n-1", UserID: "u-1", Title: "Appointment confirmed"}},
	}}
	hub := NewHub(lister, logging.Default())

	stream := hub.Subscribe(context.Background(), "u-1")
	defer stream.Close()

	snapshot := receive(t, stream)
	if len(snapshot) != 1 || snapshot[0].ID != "n-1" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestHub_RefreshReplacesSnapshotWholesale(t *testing.T) {
	lister := &fakeLister{snapshots: map[string][]*Notification{
		"u-1": {{ID: "n-1", UserID: "u-1"}},
	}}
	hub := NewHub(lister, logging.Default())

	stream := hub.Subscribe(context.Background(), "u-1")
	defer stream.Close()
	receive(t, stream)

	// The next delivery is the whole new list, not a delta.
	lister.set("u-1", []*Notification{
		{ID: "n-2", UserID: "u-1"},
		{ID: "n-1", UserID: "u-1", Read: true},
	})
	hub.Refresh(context.Background(), "u-1")

	snapshot := receive(t, stream)
	if len(snapshot) != 2 || snapshot[0].ID != "n-2" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestHub_RefreshIsScopedToUser(t *testing.T) {
	lister := &fakeLister{snapshots: map[string][]*Notification{"u-1": nil, "u-2": nil}}
	hub := NewHub(lister, logging.Default())

	s1 := hub.Subscribe(context.Background(), "u-1")
	defer s1.Close()
	s2 := hub.Subscribe(context.Background(), "u-2")
	defer s2.Close()
	receive(t, s1)
	receive(t, s2)

	lister.set("u-1", []*Notification{{ID: "n-1", UserID: "u-1"}})
	hub.Refresh(context.Background(), "u-1")

	receive(t, s1)
	select {
	case <-s2.C:
		t.Fatal("refresh for u-1 must not reach u-2")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_RefreshSurvivesConcurrentClose(t *testing.T) {
	lister := &fakeLister{snapshots: map[string][]*Notification{
		"u-1": {{ID: "n-1", UserID: "u-1"}},
	}}
	hub := NewHub(lister, logging.Default())

	stream := hub.Subscribe(context.Background(), "u-1")
	receive(t, stream)

	// Detach the stream after the hub has captured its subscriber set but
	// before delivery; the delivery lands in a dead buffer instead of a
	// closed channel.
	lister.beforeList = func() {
		lister.beforeList = nil
		stream.Close()
	}
	hub.Refresh(context.Background(), "u-1")

	select {
	case <-stream.Done():
	default:
		t.Fatal("expected stream to be detached")
	}
	if hub.SubscriberCount("u-1") != 0 {
		t.Fatal("expected 0 subscribers after close")
	}
}

func TestStream_CloseUnsubscribes(t *testing.T) {
	lister := &fakeLister{snapshots: map[string][]*Notification{}}
	hub := NewHub(lister, logging.Default())

	stream := hub.Subscribe(context.Background(), "u-1")
	if hub.SubscriberCount("u-1") != 1 {
		t.Fatal("expected 1 subscriber")
	}
	stream.Close()
	if hub.SubscriberCount("u-1") != 0 {
		t.Fatal("expected 0 subscribers after close")
	}
	// Closing twice is safe.
	stream.Close()

	// A closed stream is not restartable; a new subscription is a new stream.
	again := hub.Subscribe(context.Background(), "u-1")
	defer again.Close()
	if again == stream {
		t.Fatal("expected a fresh stream")
	}
}
