package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"mergington/internal/adapters/email"
)

// UnregisterInput carries input for the unregister orchestrator.
type UnregisterInput struct {
	ActivityName string
	Email        string
	Teacher      string
}

// UnregisterResult carries the result of a successful unregister.
type UnregisterResult struct {
	Message string
}

// UnregisterDeps holds dependencies for Unregister.
type UnregisterDeps struct {
	ActivityStore ActivityStoreForRoster
	Sender        email.Sender
}

// ExecuteUnregister removes a student from an activity roster.
// PRE: caller has verified the request comes from a teacher
// POST: Email no longer appears in the roster; other participants keep their order
func ExecuteUnregister(ctx context.Context, input UnregisterInput, deps UnregisterDeps) (UnregisterResult, error) {
	a, err := deps.ActivityStore.GetByName(ctx, input.ActivityName)
	if err != nil {
		return UnregisterResult{}, err
	}

	if err := a.Withdraw(input.Email); err != nil {
		return UnregisterResult{}, err
	}
	if err := deps.ActivityStore.Save(ctx, a); err != nil {
		return UnregisterResult{}, fmt.Errorf("save roster: %w", err)
	}

	slog.Info("roster_event", "event", "unregistered", "activity", a.Name, "email", input.Email, "teacher", input.Teacher)
	email.Dispatch(deps.Sender, email.Notice{
		Kind:     email.NoticeUnregistered,
		Email:    input.Email,
		Activity: a.Name,
		Teacher:  input.Teacher,
	})

	return UnregisterResult{Message: fmt.Sprintf("Unregistered %s from %s", input.Email, a.Name)}, nil
}
