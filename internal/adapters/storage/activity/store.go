package activity

import (
	"context"

	domain "mergington/internal/domain/activity"
)

// Store persists activities and their rosters.
// Implementations hand out copies; mutating a returned Activity never
// changes stored state until it is passed back to Save.
type Store interface {
	// GetByName returns the activity or an error wrapping domain.ErrNotFound.
	GetByName(ctx context.Context, name string) (domain.Activity, error)
	// Save inserts or replaces the activity, roster included.
	Save(ctx context.Context, value domain.Activity) error
	// List returns every activity in first-saved order.
	List(ctx context.Context) ([]domain.Activity, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
