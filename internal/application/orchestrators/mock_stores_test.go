package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mergington/internal/adapters/email"
	"mergington/internal/domain/activity"
)

// --- Mock activity store ---

type mockActivityStore struct {
	activities map[string]activity.Activity
	saves      int
	saveErr    error
}

func newMockActivityStore(seed ...activity.Activity) *mockActivityStore {
	m := &mockActivityStore{activities: make(map[string]activity.Activity)}
	for _, a := range seed {
		m.activities[a.Name] = a.Clone()
	}
	return m
}

func (m *mockActivityStore) GetByName(_ context.Context, name string) (activity.Activity, error) {
	a, ok := m.activities[name]
	if !ok {
		return activity.Activity{}, fmt.Errorf("activity %q: %w", name, activity.ErrNotFound)
	}
	return a.Clone(), nil
}

func (m *mockActivityStore) Save(_ context.Context, a activity.Activity) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.activities[a.Name] = a.Clone()
	return nil
}

// --- Mock credential store ---

type mockCredentialStore map[string]string

func (m mockCredentialStore) Verify(_ context.Context, username, password string) bool {
	want, ok := m[username]
	return ok && want == password
}

// --- Mock sender ---

type mockSender struct {
	mu   sync.Mutex
	sent chan email.SendRequest
	err  error
}

func newMockSender() *mockSender {
	return &mockSender{sent: make(chan email.SendRequest, 4)}
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent <- req
	return email.SendResult{MessageID: "mock"}, m.err
}

var errSaveFailed = errors.New("disk full")

func chessClub() activity.Activity {
	return activity.Activity{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
	}
}
