package journal

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a placement has no journal rows.
var ErrNotFound = errors.New("journal: placement not found")

// Repository persists journal entries. Each Save appends; nothing is updated in place.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}
