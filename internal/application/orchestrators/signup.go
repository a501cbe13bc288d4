package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"mergington/internal/adapters/email"
	"mergington/internal/domain/activity"
)

// ActivityStoreForRoster defines the store interface needed by Signup and Unregister.
type ActivityStoreForRoster interface {
	GetByName(ctx context.Context, name string) (activity.Activity, error)
	Save(ctx context.Context, value activity.Activity) error
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	ActivityName string
	Email        string
	Teacher      string
}

// SignupResult carries the result of a successful signup.
type SignupResult struct {
	Message string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	ActivityStore ActivityStoreForRoster
	Sender        email.Sender // optional; nil sends no notice
}

// ExecuteSignup appends a student to an activity roster.
// Any email string is accepted as given, the empty string included.
// Capacity is not enforced. The read-modify-write is not atomic, so two
// concurrent signups for the same activity may lose one update.
// PRE: caller has verified the request comes from a teacher
// POST: Email is the last participant of the activity and a notice is dispatched
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	a, err := deps.ActivityStore.GetByName(ctx, input.ActivityName)
	if err != nil {
		return SignupResult{}, err
	}

	wasFull := a.IsFull()
	if err := a.Enroll(input.Email); err != nil {
		return SignupResult{}, err
	}
	if err := deps.ActivityStore.Save(ctx, a); err != nil {
		return SignupResult{}, fmt.Errorf("save roster: %w", err)
	}
	if wasFull {
		slog.Warn("roster_over_capacity", "activity", a.Name, "participants", len(a.Participants), "max_participants", a.MaxParticipants)
	}

	slog.Info("roster_event", "event", "signed_up", "activity", a.Name, "email", input.Email, "teacher", input.Teacher)
	email.Dispatch(deps.Sender, email.Notice{
		Kind:     email.NoticeSignedUp,
		Email:    input.Email,
		Activity: a.Name,
		Schedule: a.Schedule,
		Teacher:  input.Teacher,
	})

	return SignupResult{Message: fmt.Sprintf("Signed up %s for %s", input.Email, a.Name)}, nil
}
