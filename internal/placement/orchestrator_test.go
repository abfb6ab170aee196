package placement

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/placement/journal"
)

type recordingJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (r *recordingJournal) Save(ctx context.Context, e *journal.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return r.err
}

func (r *recordingJournal) statuses() []string {
	var out []string
	for _, e := range r.entries {
		s := string(e.Status)
		if e.Step != "" {
			s += ":" + e.Step
		}
		out = append(out, s)
	}
	return out
}

type fakeStep struct {
	name    string
	execErr error
	compErr error
	calls   *[]string
}

func (f fakeStep) Name() string { return f.name }

func (f fakeStep) Execute(ctx context.Context) error {
	*f.calls = append(*f.calls, "exec:"+f.name)
	return f.execErr
}

func (f fakeStep) Compensate(ctx context.Context) error {
	*f.calls = append(*f.calls, "comp:"+f.name)
	return f.compErr
}

func TestOrchestrator_Start(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		steps        func(calls *[]string) []Step
		wantErr      error
		wantCalls    []string
		wantJournal  []string
		wantLastErrs string
	}{
		{
			name: "all steps succeed",
			steps: func(calls *[]string) []Step {
				return []Step{fakeStep{name: "a", calls: calls}, fakeStep{name: "b", calls: calls}}
			},
			wantCalls:   []string{"exec:a", "exec:b"},
			wantJournal: []string{"STARTED", "STEP_DONE:a", "STEP_DONE:b", "COMPLETED"},
		},
		{
			name: "failure compensates completed steps in reverse",
			steps: func(calls *[]string) []Step {
				return []Step{
					fakeStep{name: "a", calls: calls},
					fakeStep{name: "b", calls: calls},
					fakeStep{name: "c", execErr: boom, calls: calls},
				}
			},
			wantErr:      boom,
			wantCalls:    []string{"exec:a", "exec:b", "exec:c", "comp:b", "comp:a"},
			wantJournal:  []string{"STARTED", "STEP_DONE:a", "STEP_DONE:b", "COMPENSATING:c", "FAILED:c"},
			wantLastErrs: `["placement: step c: boom"]`,
		},
		{
			name: "compensation failure is recorded",
			steps: func(calls *[]string) []Step {
				return []Step{
					fakeStep{name: "a", compErr: errors.New("stuck"), calls: calls},
					fakeStep{name: "b", execErr: boom, calls: calls},
				}
			},
			wantErr:      boom,
			wantCalls:    []string{"exec:a", "exec:b", "comp:a"},
			wantJournal:  []string{"STARTED", "STEP_DONE:a", "COMPENSATING:b", "FAILED:b"},
			wantLastErrs: `["placement: step b: boom","compensation of a failed: stuck"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			repo := &recordingJournal{}
			o := NewOrchestrator("ORD-1", `{"id":"ORD-1"}`, tt.steps(&calls), repo, clockwork.NewFakeClock())

			err := o.Start(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start() error = %v, want %v", err, tt.wantErr)
			}
			if strings.Join(calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Errorf("calls = %v, want %v", calls, tt.wantCalls)
			}
			if got := repo.statuses(); strings.Join(got, ",") != strings.Join(tt.wantJournal, ",") {
				t.Errorf("journal = %v, want %v", got, tt.wantJournal)
			}
			if repo.entries[0].Payload != `{"id":"ORD-1"}` {
				t.Errorf("STARTED payload = %q", repo.entries[0].Payload)
			}
			if tt.wantLastErrs != "" {
				if last := repo.entries[len(repo.entries)-1]; last.Errors != tt.wantLastErrs {
					t.Errorf("FAILED errors = %s, want %s", last.Errors, tt.wantLastErrs)
				}
			}
		})
	}
}

func TestOrchestrator_NilJournalAndJournalErrors(t *testing.T) {
	var calls []string
	steps := []Step{fakeStep{name: "a", calls: &calls}}

	if err := NewOrchestrator("ORD-1", "", steps, nil, clockwork.NewFakeClock()).Start(context.Background()); err != nil {
		t.Errorf("Start() with nil journal error = %v", err)
	}

	repo := &recordingJournal{err: errors.New("disk full")}
	if err := NewOrchestrator("ORD-2", "", steps, repo, clockwork.NewFakeClock()).Start(context.Background()); err != nil {
		t.Errorf("Start() with failing journal error = %v", err)
	}
}

func TestPlacementSteps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	store := ports.NewMockOrderStore(ctrl)
	carts := ports.NewMockCartProvider(ctrl)
	notifier := ports.NewMockNotifier(ctrl)
	order := domain.Order{ID: "ORD-2024-000123", Status: domain.StatusProcessing, Date: time.Now()}

	gomock.InOrder(
		store.EXPECT().Add(gomock.Any(), order).Return(nil),
		carts.EXPECT().Clear(gomock.Any(), "cart-1").Return(errors.New("cart gone")),
		store.EXPECT().UpdateStatus(gomock.Any(), "ORD-2024-000123", domain.StatusCancelled, "").Return(order, nil),
	)

	steps := []Step{
		NewStoreOrderStep(store, order),
		NewClearCartStep(carts, "cart-1"),
		NewNotifyStep(notifier, domain.NotifySuccess, "Order placed", "ok"),
	}
	err := NewOrchestrator(order.ID, "", steps, nil, clockwork.NewFakeClock()).Start(ctx)
	if err == nil || !strings.Contains(err.Error(), "clear_cart") {
		t.Fatalf("Start() error = %v, want clear_cart failure", err)
	}
}

func TestPlacementSteps_HappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ports.NewMockOrderStore(ctrl)
	carts := ports.NewMockCartProvider(ctrl)
	notifier := ports.NewMockNotifier(ctrl)
	order := domain.Order{ID: "ORD-2024-000123"}

	gomock.InOrder(
		store.EXPECT().Add(gomock.Any(), order).Return(nil),
		carts.EXPECT().Clear(gomock.Any(), "cart-1").Return(nil),
		notifier.EXPECT().Show(gomock.Any(), domain.NotifySuccess, "Order placed", "ok"),
	)

	steps := []Step{
		NewStoreOrderStep(store, order),
		NewClearCartStep(carts, "cart-1"),
		NewNotifyStep(notifier, domain.NotifySuccess, "Order placed", "ok"),
	}
	if err := NewOrchestrator(order.ID, "", steps, nil, clockwork.NewFakeClock()).Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestStoreOrderStep_DuplicateNotCompensated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ports.NewMockOrderStore(ctrl)
	order := domain.Order{ID: "ORD-2024-000123"}
	store.EXPECT().Add(gomock.Any(), order).Return(ports.ErrDuplicateOrder)

	err := NewOrchestrator(order.ID, "", []Step{NewStoreOrderStep(store, order)}, nil, clockwork.NewFakeClock()).Start(context.Background())
	if !errors.Is(err, ports.ErrDuplicateOrder) {
		t.Errorf("Start() error = %v, want ErrDuplicateOrder", err)
	}
}
