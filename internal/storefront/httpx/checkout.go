package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
)

func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req StartCheckoutRequest
	if !h.decode(w, r, &req) {
		return
	}
	sess, err := h.checkout.StartCheckout(r.Context(), req.CartID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sum, err := h.checkout.Summary(r.Context(), sess.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sum, err := h.checkout.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequest
	if !h.decode(w, r, &req) {
		return
	}
	sum, err := h.checkout.SubmitShipping(r.Context(), chi.URLParam(r, "id"), req.Address, req.ShippingMethod)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	method := domain.PaymentMethod{Type: req.Method, SavePaymentMethod: req.SavePaymentMethod}
	sum, err := h.checkout.SubmitPayment(r.Context(), chi.URLParam(r, "id"), method, req.Details)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) SetGift(w http.ResponseWriter, r *http.Request) {
	var req GiftRequest
	if !h.decode(w, r, &req) {
		return
	}
	sum, err := h.checkout.SetGift(r.Context(), chi.URLParam(r, "id"), req.IsGiftOrder, req.GiftMessage)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	sum, err := h.checkout.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// PlaceOrder blocks for the processing delay. A client that disconnects
// before it elapses cancels the placement.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	sessionID := chi.URLParam(r, "id")
	slog.InfoContext(r.Context(), "placing order",
		"request_id", interceptors.RequestIDFromContext(r.Context()),
		"session_id", sessionID,
	)

	p, err := h.checkout.PlaceOrder(r.Context(), sessionID, req.AcceptTerms)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, PlaceOrderResponse{
		Order:           p.Order,
		RedirectTo:      p.RedirectTo,
		RedirectAfterMs: p.RedirectAfter.Milliseconds(),
	})
}
