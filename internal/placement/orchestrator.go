// Package placement runs the side effects of a confirmed order as an ordered
// pipeline. When a step fails, the steps that already ran are compensated in
// reverse order.
package placement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/placement/journal"
)

// Step is a single unit of work in the pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator executes Steps for one placement and journals each transition.
type Orchestrator struct {
	placementID string
	payload     string
	steps       []Step
	journal     journal.Repository // nil-safe: journaling skipped if nil
	clock       clockwork.Clock
}

// NewOrchestrator builds a pipeline for placementID. payload is the JSON
// document recorded on the STARTED entry. repo may be nil.
func NewOrchestrator(placementID, payload string, steps []Step, repo journal.Repository, clock clockwork.Clock) *Orchestrator {
	return &Orchestrator{
		placementID: placementID,
		payload:     payload,
		steps:       steps,
		journal:     repo,
		clock:       clock,
	}
}

// Start runs the steps sequentially. On failure every completed step is
// compensated (LIFO) and the step error is returned.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, journal.StatusStarted, "", o.payload, nil)

	var done []Step
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing placement step", "placement_id", o.placementID, "step", step.Name())

		if err := step.Execute(ctx); err != nil {
			stepErr := fmt.Errorf("placement: step %s: %w", step.Name(), err)
			slog.ErrorContext(ctx, "placement step failed, compensating",
				"placement_id", o.placementID,
				"step", step.Name(),
				"error", err,
			)

			errs := []string{stepErr.Error()}
			o.record(ctx, journal.StatusCompensating, step.Name(), "", errs)
			errs = o.rollback(ctx, done, errs)
			o.record(ctx, journal.StatusFailed, step.Name(), "", errs)
			return stepErr
		}

		done = append(done, step)
		o.record(ctx, journal.StatusStepDone, step.Name(), "", nil)
	}

	slog.InfoContext(ctx, "placement completed", "placement_id", o.placementID)
	o.record(ctx, journal.StatusCompleted, "", "", nil)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step, errs []string) []string {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating placement step", "placement_id", o.placementID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate placement step",
				"placement_id", o.placementID,
				"step", step.Name(),
				"error", err,
			)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status journal.Status, step, payload string, errs []string) {
	if o.journal == nil {
		return
	}
	entry := journal.NewEntry(ctx, o.placementID, status, step, payload, errs, o.clock.Now())
	if err := o.journal.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to journal placement transition",
			"placement_id", o.placementID,
			"status", status,
			"error", err,
		)
	}
}
