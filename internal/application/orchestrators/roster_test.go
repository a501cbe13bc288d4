package orchestrators

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"mergington/internal/domain/activity"
)

func TestExecuteSignup(t *testing.T) {
	tests := []struct {
		name        string
		input       SignupInput
		saveErr     error
		wantErr     error
		wantMessage string
		wantRoster  []string
	}{
		{
			name:        "appends new student",
			input:       SignupInput{ActivityName: "Chess Club", Email: "newstudent@mergington.edu", Teacher: "mchen"},
			wantMessage: "Signed up newstudent@mergington.edu for Chess Club",
			wantRoster:  []string{"michael@mergington.edu", "daniel@mergington.edu", "newstudent@mergington.edu"},
		},
		{
			name:       "unknown activity",
			input:      SignupInput{ActivityName: "Nonexistent Club", Email: "a@mergington.edu"},
			wantErr:    activity.ErrNotFound,
			wantRoster: chessClub().Participants,
		},
		{
			name:        "whitespace email is taken as given",
			input:       SignupInput{ActivityName: "Chess Club", Email: " "},
			wantMessage: "Signed up   for Chess Club",
			wantRoster:  []string{"michael@mergington.edu", "daniel@mergington.edu", " "},
		},
		{
			name:        "empty email is taken as given",
			input:       SignupInput{ActivityName: "Chess Club"},
			wantMessage: "Signed up  for Chess Club",
			wantRoster:  []string{"michael@mergington.edu", "daniel@mergington.edu", ""},
		},
		{
			name:       "already signed up",
			input:      SignupInput{ActivityName: "Chess Club", Email: "michael@mergington.edu"},
			wantErr:    activity.ErrAlreadySignedUp,
			wantRoster: chessClub().Participants,
		},
		{
			name:       "save failure",
			input:      SignupInput{ActivityName: "Chess Club", Email: "x@mergington.edu"},
			saveErr:    errSaveFailed,
			wantErr:    errSaveFailed,
			wantRoster: chessClub().Participants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockActivityStore(chessClub())
			store.saveErr = tt.saveErr

			res, err := ExecuteSignup(context.Background(), tt.input, SignupDeps{ActivityStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", res.Message, tt.wantMessage)
			}
			if got := store.activities["Chess Club"].Participants; !slices.Equal(got, tt.wantRoster) {
				t.Errorf("roster = %v, want %v", got, tt.wantRoster)
			}
		})
	}
}

// TestExecuteSignup_CapacityIgnored verifies a full activity still accepts signups.
func TestExecuteSignup_CapacityIgnored(t *testing.T) {
	full := chessClub()
	full.MaxParticipants = 2
	store := newMockActivityStore(full)

	if _, err := ExecuteSignup(context.Background(), SignupInput{ActivityName: "Chess Club", Email: "third@mergington.edu"}, SignupDeps{ActivityStore: store}); err != nil {
		t.Fatalf("ExecuteSignup: %v", err)
	}
	if n := len(store.activities["Chess Club"].Participants); n != 3 {
		t.Errorf("roster size = %d, want 3", n)
	}
}

func TestExecuteSignup_SendsNotice(t *testing.T) {
	store := newMockActivityStore(chessClub())
	sender := newMockSender()

	_, err := ExecuteSignup(context.Background(),
		SignupInput{ActivityName: "Chess Club", Email: "newstudent@mergington.edu", Teacher: "mchen"},
		SignupDeps{ActivityStore: store, Sender: sender})
	if err != nil {
		t.Fatalf("ExecuteSignup: %v", err)
	}

	select {
	case req := <-sender.sent:
		if req.To[0] != "newstudent@mergington.edu" {
			t.Errorf("notice To = %v", req.To)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notice sent")
	}
}

// TestExecuteSignup_NoticeFailureIgnored verifies a provider error never fails the signup.
func TestExecuteSignup_NoticeFailureIgnored(t *testing.T) {
	store := newMockActivityStore(chessClub())
	sender := newMockSender()
	sender.err = errors.New("provider down")

	_, err := ExecuteSignup(context.Background(),
		SignupInput{ActivityName: "Chess Club", Email: "newstudent@mergington.edu"},
		SignupDeps{ActivityStore: store, Sender: sender})
	if err != nil {
		t.Fatalf("ExecuteSignup: %v", err)
	}
	<-sender.sent
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestExecuteUnregister(t *testing.T) {
	tests := []struct {
		name        string
		input       UnregisterInput
		wantErr     error
		wantMessage string
		wantRoster  []string
	}{
		{
			name:        "removes student keeping order",
			input:       UnregisterInput{ActivityName: "Chess Club", Email: "michael@mergington.edu"},
			wantMessage: "Unregistered michael@mergington.edu from Chess Club",
			wantRoster:  []string{"daniel@mergington.edu"},
		},
		{
			name:       "unknown activity",
			input:      UnregisterInput{ActivityName: "Nonexistent Club", Email: "michael@mergington.edu"},
			wantErr:    activity.ErrNotFound,
			wantRoster: chessClub().Participants,
		},
		{
			name:       "empty email not signed up",
			input:      UnregisterInput{ActivityName: "Chess Club"},
			wantErr:    activity.ErrNotSignedUp,
			wantRoster: chessClub().Participants,
		},
		{
			name:       "not signed up",
			input:      UnregisterInput{ActivityName: "Chess Club", Email: "ghost@mergington.edu"},
			wantErr:    activity.ErrNotSignedUp,
			wantRoster: chessClub().Participants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockActivityStore(chessClub())

			res, err := ExecuteUnregister(context.Background(), tt.input, UnregisterDeps{ActivityStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", res.Message, tt.wantMessage)
			}
			if got := store.activities["Chess Club"].Participants; !slices.Equal(got, tt.wantRoster) {
				t.Errorf("roster = %v, want %v", got, tt.wantRoster)
			}
		})
	}
}

// TestSignupThenUnregister_RestoresRoster checks the round trip leaves the original roster.
func TestSignupThenUnregister_RestoresRoster(t *testing.T) {
	ctx := context.Background()
	store := newMockActivityStore(chessClub())

	if _, err := ExecuteSignup(ctx, SignupInput{ActivityName: "Chess Club", Email: "x@mergington.edu"}, SignupDeps{ActivityStore: store}); err != nil {
		t.Fatalf("ExecuteSignup: %v", err)
	}
	if _, err := ExecuteUnregister(ctx, UnregisterInput{ActivityName: "Chess Club", Email: "x@mergington.edu"}, UnregisterDeps{ActivityStore: store}); err != nil {
		t.Fatalf("ExecuteUnregister: %v", err)
	}
	if got := store.activities["Chess Club"].Participants; !slices.Equal(got, chessClub().Participants) {
		t.Errorf("roster = %v, want %v", got, chessClub().Participants)
	}
}
