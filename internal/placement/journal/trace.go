package journal

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers of the span active in a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo returns the hex trace and span ids of the active span,
// or empty strings when the context carries none.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry stamped with the trace info found in ctx.
//
//	entry := journal.NewEntry(ctx, order.ID, journal.StatusStepDone, "store_order", "", nil, clock.Now())
//	_ = repo.Save(ctx, entry)
func NewEntry(
	ctx context.Context,
	placementID string,
	status Status,
	step string,
	payload string,
	errs []string,
	at time.Time,
) *Entry {
	ti := ExtractTraceInfo(ctx)

	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	return &Entry{
		PlacementID: placementID,
		Status:      status,
		Step:        step,
		Payload:     payload,
		Errors:      errJSON,
		TraceID:     ti.TraceID,
		SpanID:      ti.SpanID,
		RecordedAt:  at.UTC(),
	}
}
