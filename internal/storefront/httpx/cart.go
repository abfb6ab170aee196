package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	id := h.carts.Create(r.Context())
	writeJSON(w, http.StatusCreated, CartCreatedResponse{ID: id})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.carts.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := h.carts.AddLine(r.Context(), chi.URLParam(r, "id"), domain.CartLine{
		ID:            req.ID,
		Name:          req.Name,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Color:         req.Color,
		Size:          req.Size,
		Quantity:      req.Quantity,
		MaxQuantity:   req.MaxQuantity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := h.carts.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.carts.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := h.carts.ApplyPromo(r.Context(), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
