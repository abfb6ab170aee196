package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// UnaryServerInterceptor reads x-request-id from the incoming metadata, or
// mints one, stores it in the context and logs the call.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)

		start := time.Now()
		resp, err := handler(ctx, req)
		slog.InfoContext(ctx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// RequestIDFromContext returns the request id stored by the HTTP middleware
// or the gRPC interceptor, or "unknown".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
			return ids[0]
		}
	}
	return "unknown"
}
