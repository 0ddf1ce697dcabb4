package labtests

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Handler serves the lab-test catalog, the operator worklist, and
// patient order history.
type Handler struct {
	store     *Store
	catalog   *Catalog
	reports   *ReportStore
	publisher *events.Publisher
	logger    *logging.Logger
}

func NewHandler(store *Store, catalog *Catalog, reports *ReportStore, publisher *events.Publisher, logger *logging.Logger) *Handler {
	return &Handler{store: store, catalog: catalog, reports: reports, publisher: publisher, logger: logger}
}

// ListCatalog handles GET /lab-tests.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	tests, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list test catalog", "error", err)
		http.Error(w, "failed to list tests", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tests": tests, "count": len(tests)})
}

// UpsertCatalogEntry handles PUT /admin/lab-tests/{testID}.
func (h *Handler) UpsertCatalogEntry(w http.ResponseWriter, r *http.Request) {
	var t Test
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t.ID = chi.URLParam(r, "testID")
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := h.catalog.Put(r.Context(), &t); err != nil {
		h.logger.Error("failed to upsert catalog entry", "error", err)
		http.Error(w, "failed to save test", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListMine handles GET /patient/lab-orders.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	orders, err := h.store.ListByPatient(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to list patient lab orders", "error", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

// Worklist handles GET /lab/orders.
func (h *Handler) Worklist(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListPending(r.Context())
	if err != nil {
		h.logger.Error("failed to list pending lab orders", "error", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

type completeRequest struct {
	Summary      string `json:"summary"`
	ReportBase64 string `json:"reportBase64,omitempty"`
	ContentType  string `json:"contentType,omitempty"`
}

// Complete handles POST /lab/orders/{orderID}/complete. The optional
// report document is uploaded before the order transitions so a failed
// upload leaves the order pending.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Summary == "" {
		http.Error(w, ErrMissingSummary.Error(), http.StatusBadRequest)
		return
	}

	results := &Results{Summary: req.Summary}
	if req.ReportBase64 != "" {
		body, err := base64.StdEncoding.DecodeString(req.ReportBase64)
		if err != nil {
			http.Error(w, "Invalid report encoding", http.StatusBadRequest)
			return
		}
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		key, err := h.reports.Upload(r.Context(), id, contentType, body)
		if err != nil {
			h.logger.Error("failed to upload lab report", "order_id", id, "error", err)
			http.Error(w, "failed to store report", http.StatusInternalServerError)
			return
		}
		results.ReportKey = key
	}

	order, err := h.store.Complete(r.Context(), id, results)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.publisher.LabResultReady(r.Context(), events.LabResultReadyV1{
		OrderID:   order.ID,
		PatientID: order.PatientID,
		ReportKey: results.ReportKey,
	})
	h.logger.Info("lab order completed", "order_id", order.ID)
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /lab/orders/{orderID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Cancel(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// DownloadReport handles GET /patient/lab-orders/{orderID}/report. The
// order must belong to the caller.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	order, err := h.store.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if order.PatientID != sess.UserID && sess.Role != session.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if order.Results == nil || order.Results.ReportKey == "" {
		http.Error(w, "no report available", http.StatusNotFound)
		return
	}
	data, contentType, err := h.reports.Download(r.Context(), order.Results.ReportKey)
	if err != nil {
		h.logger.Error("failed to download lab report", "order_id", order.ID, "error", err)
		http.Error(w, "failed to fetch report", http.StatusInternalServerError)
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrMissingSummary):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("lab order update failed", "error", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
