package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// AttachRequestID exposes chi's request id under the shared context key,
// echoes it in the response and forwards it on outgoing gRPC metadata.
func AttachRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, requestID)
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, requestID)
		w.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
