package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/orderstore"
)

func TestTracker_Lookup(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		mockSetup func(store *ports.MockOrderStore)
		wantID    string
		wantErr   error
	}{
		{
			name:  "found",
			query: "ord-2024-000123",
			mockSetup: func(store *ports.MockOrderStore) {
				store.EXPECT().List(gomock.Any()).Return([]domain.Order{{ID: "ORD-2024-000123"}}, nil)
			},
			wantID: "ORD-2024-000123",
		},
		{
			name:  "not found",
			query: "nope",
			mockSetup: func(store *ports.MockOrderStore) {
				store.EXPECT().List(gomock.Any()).Return([]domain.Order{{ID: "ORD-2024-000123"}}, nil)
			},
			wantErr: ports.ErrOrderNotFound,
		},
		{
			name:  "store error",
			query: "ORD-2024-000123",
			mockSetup: func(store *ports.MockOrderStore) {
				store.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			store := ports.NewMockOrderStore(ctrl)
			tt.mockSetup(store)

			got, err := NewTracker(store, clockwork.NewFakeClock()).Lookup(context.Background(), tt.query)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Lookup() error = nil, want %v", tt.wantErr)
				}
				if errors.Is(tt.wantErr, ports.ErrOrderNotFound) && !errors.Is(err, ports.ErrOrderNotFound) {
					t.Errorf("Lookup() error = %v, want ErrOrderNotFound", err)
				}
				return
			}
			if err != nil || got.ID != tt.wantID {
				t.Errorf("Lookup() = %s, %v", got.ID, err)
			}
		})
	}
}

func receive(t *testing.T, ch <-chan domain.Order) domain.Order {
	t.Helper()
	select {
	case o, ok := <-ch:
		if !ok {
			t.Fatal("watch channel closed")
		}
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}
	return domain.Order{}
}

func TestTracker_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	store := orderstore.NewMemory(clock)
	_ = store.Add(ctx, domain.Order{
		ID:       "ORD-2024-000123",
		Status:   domain.StatusProcessing,
		Timeline: []domain.TimelineEntry{{Status: domain.TimelineOrderPlaced}},
	})

	tr := NewTracker(store, clock)
	updates, err := tr.Watch(ctx, "ORD-2024-000123", time.Minute)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if first := receive(t, updates); first.Status != domain.StatusProcessing {
		t.Errorf("initial snapshot status = %s", first.Status)
	}

	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}
	_, _ = store.UpdateStatus(ctx, "ORD-2024-000123", domain.StatusShipped, "TRK-1")
	clock.Advance(time.Minute)

	next := receive(t, updates)
	if next.Status != domain.StatusShipped || len(next.Timeline) != 2 {
		t.Errorf("update = %s, %d timeline entries", next.Status, len(next.Timeline))
	}

	cancel()
	select {
	case _, ok := <-updates:
		if ok {
			t.Error("expected channel to close after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestTracker_WatchUnknownOrder(t *testing.T) {
	tr := NewTracker(orderstore.NewMemory(clockwork.NewFakeClock()), clockwork.NewFakeClock())
	if _, err := tr.Watch(context.Background(), "nope", time.Second); !errors.Is(err, ports.ErrOrderNotFound) {
		t.Errorf("Watch() error = %v, want ErrOrderNotFound", err)
	}
}
