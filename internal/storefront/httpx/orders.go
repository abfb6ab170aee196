package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// TrackOrder resolves ?q= against order ids and tracking numbers.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query_required", "q is required")
		return
	}
	o, err := h.tracker.Lookup(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// WatchOrder streams order snapshots as server-sent events until the client
// goes away.
func (h *Handler) WatchOrder(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "")
		return
	}

	id := chi.URLParam(r, "id")
	updates, err := h.tracker.Watch(r.Context(), id, h.pollInterval)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for o := range updates {
		data, err := json.Marshal(o)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to encode order event", "order_id", id, "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: order\ndata: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}

// UpdateOrderStatus is the admin endpoint for carrier and fulfilment updates.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid_status", fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, strings.TrimSpace(req.TrackingNumber))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "order status updated", "order_id", o.ID, "status", o.Status)
	writeJSON(w, http.StatusOK, o)
}

// PlacementHistory lists the journaled pipeline transitions of an order.
func (h *Handler) PlacementHistory(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "journal_disabled", "placement journal is not configured")
		return
	}
	id := chi.URLParam(r, "id")
	latest, err := h.journal.Latest(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	entries, err := h.journal.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PlacementHistoryResponse{
		PlacementID: id,
		Status:      latest.Status,
		Step:        latest.Step,
		Entries:     entries,
	})
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifications.Active())
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Dismiss(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
