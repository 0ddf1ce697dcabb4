package notifications

import (
	"context"
	"sync"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Stream is a lazy, infinite sequence of per-user notification snapshots.
// Each delivery is the user's complete notification list; consumers replace
// their local state with it rather than merging. A closed stream cannot be
// restarted; clients subscribe again for a fresh one.
type Stream struct {
	C chan []*Notification

	hub    *Hub
	userID string
	done   chan struct{}
	once   sync.Once
}

// Close detaches the stream from the hub. C stays open so a refresh racing
// the close delivers into a dead buffer instead of panicking; consumers
// watch Done to stop draining.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.done)
	})
}

// Done is closed once the stream has detached from the hub.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

type snapshotLister interface {
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
}

// Hub fans per-user snapshots out to subscribed streams. Writers call
// Refresh after changing a user's notifications.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Stream]struct{}
	lister snapshotLister
	logger *logging.Logger
}

func NewHub(lister snapshotLister, logger *logging.Logger) *Hub {
	if lister == nil {
		panic("notifications: snapshot lister cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*Stream]struct{}),
		lister: lister,
		logger: logger,
	}
}

// Subscribe opens a stream of snapshots for one user. The first snapshot
// is pushed immediately.
func (h *Hub) Subscribe(ctx context.Context, userID string) *Stream {
	s := &Stream{
		C:      make(chan []*Notification, 8),
		userID: userID,
		done:   make(chan struct{}),
	}
	s.hub = h

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Stream]struct{})
	}
	h.subs[userID][s] = struct{}{}
	h.mu.Unlock()

	h.push(ctx, userID, s)
	return s
}

func (h *Hub) unsubscribe(s *Stream) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.userID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.userID)
		}
	}
}

// Refresh fetches a fresh snapshot for userID and delivers it to every
// subscribed stream. A full subscriber buffer drops the delivery; the next
// refresh supersedes it anyway.
func (h *Hub) Refresh(ctx context.Context, userID string) {
	h.mu.Lock()
	streams := make([]*Stream, 0, len(h.subs[userID]))
	for s := range h.subs[userID] {
		streams = append(streams, s)
	}
	h.mu.Unlock()

	if len(streams) == 0 {
		return
	}
	snapshot, err := h.lister.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to build notification snapshot", "user_id", userID, "error", err)
		return
	}
	for _, s := range streams {
		select {
		case s.C <- snapshot:
		default:
		}
	}
}

func (h *Hub) push(ctx context.Context, userID string, s *Stream) {
	snapshot, err := h.lister.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to build notification snapshot", "user_id", userID, "error", err)
		return
	}
	select {
	case s.C <- snapshot:
	default:
	}
}

// SubscriberCount reports how many streams are open for a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
