package orchestrators

import (
	"context"
	"errors"
	"slices"
	"testing"

	"mergington/internal/domain/activity"
)

// TestExecuteSeedActivities_OverwritesRosters verifies seeding resets rosters changed earlier.
func TestExecuteSeedActivities_OverwritesRosters(t *testing.T) {
	ctx := context.Background()
	changed := chessClub()
	changed.Participants = []string{"someone@mergington.edu"}
	store := newMockActivityStore(changed)

	if err := ExecuteSeedActivities(ctx, SeedActivitiesDeps{ActivityStore: store}); err != nil {
		t.Fatalf("ExecuteSeedActivities: %v", err)
	}

	if len(store.activities) != len(activity.Seed()) {
		t.Errorf("activities = %d, want %d", len(store.activities), len(activity.Seed()))
	}
	if got := store.activities["Chess Club"].Participants; !slices.Equal(got, chessClub().Participants) {
		t.Errorf("Chess Club roster = %v, want seed roster", got)
	}
}

func TestExecuteSeedActivities_SaveError(t *testing.T) {
	store := newMockActivityStore()
	store.saveErr = errSaveFailed

	err := ExecuteSeedActivities(context.Background(), SeedActivitiesDeps{ActivityStore: store})
	if !errors.Is(err, errSaveFailed) {
		t.Errorf("err = %v, want %v", err, errSaveFailed)
	}
}
