package activity

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Domain errors
var (
	ErrNotFound        = errors.New("activity not found")
	ErrAlreadySignedUp = errors.New("student is already signed up")
	ErrNotSignedUp     = errors.New("student is not signed up for this activity")
	ErrEmptyName       = errors.New("activity name cannot be empty")
	ErrInvalidCapacity = errors.New("max participants cannot be negative")
)

// Activity is an extracurricular offering and its roster.
// Participants keep insertion order and hold each email at most once.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// Validate checks if the Activity has valid data.
// PRE: Activity struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.MaxParticipants < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	return lo.Contains(a.Participants, email)
}

// Enroll appends email to the end of the roster.
// Capacity is advisory: MaxParticipants is not checked here.
// PRE: email is non-empty
// POST: email is the last participant, or ErrAlreadySignedUp and the roster is unchanged
func (a *Activity) Enroll(email string) error {
	if a.HasParticipant(email) {
		return ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Withdraw removes email from the roster, keeping the order of the others.
// PRE: email is non-empty
// POST: email is no longer a participant, or ErrNotSignedUp and the roster is unchanged
func (a *Activity) Withdraw(email string) error {
	idx := lo.IndexOf(a.Participants, email)
	if idx < 0 {
		return ErrNotSignedUp
	}
	a.Participants = slices.Delete(a.Participants, idx, idx+1)
	return nil
}

// IsFull reports whether the roster has reached MaxParticipants.
// Only used for display; signups are never refused on capacity.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Clone returns a deep copy so callers never share the participant slice.
// INVARIANT: Activity fields are not mutated
func (a Activity) Clone() Activity {
	a.Participants = slices.Clone(a.Participants)
	if a.Participants == nil {
		a.Participants = []string{}
	}
	return a
}
