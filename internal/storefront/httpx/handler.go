package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/checkout/app"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/checkout/pricing"
	"github.com/jcmexdev/storefront/internal/notify"
	"github.com/jcmexdev/storefront/internal/placement/journal"
	"github.com/jcmexdev/storefront/internal/tracking"
)

// Pinger reports whether an optional backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JournalReader exposes the recorded transitions of an order placement.
// Latest returns journal.ErrNotFound for an unknown placement.
type JournalReader interface {
	Latest(ctx context.Context, placementID string) (*journal.Entry, error)
	History(ctx context.Context, placementID string) ([]journal.Entry, error)
}

// Handler serves the storefront API.
type Handler struct {
	carts         *cart.Service
	checkout      *app.Service
	orders        ports.OrderStore
	tracker       *tracking.Tracker
	notifications *notify.Feed
	journal       JournalReader
	pollInterval  time.Duration
	health        map[string]Pinger
	validate      *validator.Validate
}

type Deps struct {
	Carts         *cart.Service
	Checkout      *app.Service
	Orders        ports.OrderStore
	Tracker       *tracking.Tracker
	Notifications *notify.Feed
	// Journal may be nil when placements are not journaled.
	Journal JournalReader
	// PollInterval is how often order watches re-read the store.
	PollInterval time.Duration
	// Health lists optional dependencies reported by /healthz.
	Health map[string]Pinger
}

func NewHandler(d Deps) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Handler{
		carts:         d.Carts,
		checkout:      d.Checkout,
		orders:        d.Orders,
		tracker:       d.Tracker,
		notifications: d.Notifications,
		journal:       d.Journal,
		pollInterval:  d.PollInterval,
		health:        d.Health,
		validate:      v,
	}
}

// ShippingMethods lists the methods priced for ?subtotal= (default 0).
func (h *Handler) ShippingMethods(w http.ResponseWriter, r *http.Request) {
	var subtotal int64
	if raw := r.URL.Query().Get("subtotal"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "invalid_subtotal", "subtotal must be a non-negative integer")
			return
		}
		subtotal = v
	}
	writeJSON(w, http.StatusOK, pricing.Methods(subtotal))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK
	if len(h.health) > 0 {
		resp.Checks = make(map[string]string, len(h.health))
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, p := range h.health {
			if err := p.Ping(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into dst and runs its validate tags. It writes
// the error response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
				Fields:  fields,
			})
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
