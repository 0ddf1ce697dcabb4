package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler serves notification listing, read receipts, and the WebSocket
// snapshot stream.
type Handler struct {
	store  *Store
	hub    *Hub
	logger *logging.Logger
}

func NewHandler(store *Store, hub *Hub, logger *logging.Logger) *Handler {
	return &Handler{store: store, hub: hub, logger: logger}
}

// List handles GET /notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	list, err := h.store.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"notifications": list, "count": len(list)})
}

// MarkRead handles POST /notifications/{notificationID}/read. The hub is
// refreshed so open streams see the new snapshot.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "notificationID")
	if err := h.store.MarkRead(r.Context(), id); err != nil {
		h.logger.Error("failed to mark notification read", "id", id, "error", err)
		http.Error(w, "failed to mark read", http.StatusInternalServerError)
		return
	}
	h.hub.Refresh(r.Context(), sess.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Stream handles GET /notifications/stream. Each connection gets its own
// snapshot stream; when the stream ends the client reconnects for a new
// one rather than resuming.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	stream := h.hub.Subscribe(r.Context(), sess.UserID)

	go h.writePump(conn, stream)
	go h.readPump(conn, stream)
}

// writePump pushes snapshots until the stream detaches.
func (h *Handler) writePump(conn *websocket.Conn, stream *Stream) {
	defer conn.Close()
	for {
		select {
		case snapshot := <-stream.C:
			data, err := json.Marshal(map[string]any{"notifications": snapshot, "count": len(snapshot)})
			if err != nil {
				h.logger.Error("failed to encode snapshot", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-stream.Done():
			return
		}
	}
}

// readPump discards inbound messages and tears the stream down when the
// client goes away.
func (h *Handler) readPump(conn *websocket.Conn, stream *Stream) {
	defer func() {
		stream.Close()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
