package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jcmexdev/storefront/internal/placement/journal"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)
	at := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	entries := []*journal.Entry{
		journal.NewEntry(ctx, "ORD-1", journal.StatusStarted, "", `{"id":"ORD-1"}`, nil, at),
		journal.NewEntry(ctx, "ORD-1", journal.StatusStepDone, "store_order", "", nil, at),
		journal.NewEntry(ctx, "ORD-2", journal.StatusStarted, "", `{"id":"ORD-2"}`, nil, at),
		journal.NewEntry(ctx, "ORD-1", journal.StatusFailed, "clear_cart", "", []string{"clear_cart: boom"}, at.Add(time.Second)),
	}
	for _, e := range entries {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	latest, err := repo.Latest(ctx, "ORD-1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Status != journal.StatusFailed || latest.Step != "clear_cart" || latest.Errors != `["clear_cart: boom"]` {
		t.Errorf("Latest() = %+v", latest)
	}
	if !latest.RecordedAt.Equal(at.Add(time.Second)) {
		t.Errorf("RecordedAt = %v", latest.RecordedAt)
	}

	history, err := repo.History(ctx, "ORD-1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History() len = %d, want 3", len(history))
	}
	if history[0].Payload != `{"id":"ORD-1"}` || history[1].Payload != "" {
		t.Errorf("payloads = %q, %q", history[0].Payload, history[1].Payload)
	}
}

func TestRepository_LatestMissing(t *testing.T) {
	repo := openTemp(t)
	if _, err := repo.Latest(context.Background(), "nope"); !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}
