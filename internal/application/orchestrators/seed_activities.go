package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"mergington/internal/domain/activity"
)

// ActivityStoreForSeed defines the store interface needed by SeedActivities.
type ActivityStoreForSeed interface {
	Save(ctx context.Context, value activity.Activity) error
}

// SeedActivitiesDeps holds dependencies for SeedActivities.
type SeedActivitiesDeps struct {
	ActivityStore ActivityStoreForSeed
}

// ExecuteSeedActivities writes the starting catalog into the store.
// Existing rosters for seeded names are overwritten, so every start begins
// from the same registry regardless of backend.
// PRE: store schema is ready
// POST: every seed activity is stored with its seed roster
func ExecuteSeedActivities(ctx context.Context, deps SeedActivitiesDeps) error {
	seed := activity.Seed()
	for _, a := range seed {
		if err := deps.ActivityStore.Save(ctx, a); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
	}
	slog.Info("activities_seeded", "count", len(seed))
	return nil
}
