package constants

// contextKey keeps these keys from colliding with other packages' string keys.
type contextKey string

const (
	HeaderXRequestId = "x-request-id"

	// ContextKeyRequestID carries the request id through HTTP and gRPC handlers.
	ContextKeyRequestID contextKey = HeaderXRequestId
)
