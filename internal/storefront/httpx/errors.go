package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/checkout/app"
	"github.com/jcmexdev/storefront/internal/checkout/flow"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/checkout/validation"
	"github.com/jcmexdev/storefront/internal/notify"
	"github.com/jcmexdev/storefront/internal/placement/journal"
)

var errorStatus = []struct {
	target error
	status int
	code   string
}{
	{ports.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{ports.ErrCartNotFound, http.StatusNotFound, "cart_not_found"},
	{flow.ErrSessionNotFound, http.StatusNotFound, "checkout_not_found"},
	{cart.ErrLineNotFound, http.StatusNotFound, "line_not_found"},
	{notify.ErrNotificationNotFound, http.StatusNotFound, "notification_not_found"},
	{journal.ErrNotFound, http.StatusNotFound, "placement_not_found"},
	{flow.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{app.ErrPlacementInProgress, http.StatusConflict, "placement_in_progress"},
	{ports.ErrDuplicateOrder, http.StatusConflict, "duplicate_order"},
	{flow.ErrUnknownShippingMethod, http.StatusUnprocessableEntity, "unknown_shipping_method"},
	{cart.ErrInvalidLine, http.StatusUnprocessableEntity, "invalid_line"},
	{cart.ErrInvalidPromo, http.StatusUnprocessableEntity, "invalid_promo"},
	{cart.ErrPromoNotEligible, http.StatusUnprocessableEntity, "promo_not_eligible"},
	{app.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{context.Canceled, http.StatusServiceUnavailable, "cancelled"},
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   errorCode(fe.Kind.Error()),
			Message: fe.Error(),
			Fields:  fe.Fields(),
		})
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}

	slog.ErrorContext(r.Context(), "unhandled service error", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

// errorCode turns "missing required field" into "missing_required_field".
func errorCode(kind string) string {
	return strings.ReplaceAll(kind, " ", "_")
}
