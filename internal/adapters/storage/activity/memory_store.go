package activity

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	domain "mergington/internal/domain/activity"
)

// MemoryStore keeps activities in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]domain.Activity
	order  []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byName: make(map[string]domain.Activity)}
}

// GetByName retrieves an Activity by its exact name.
// PRE: none
// POST: Returns a copy of the activity or an error wrapping domain.ErrNotFound
func (s *MemoryStore) GetByName(_ context.Context, name string) (domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byName[name]
	if !ok {
		return domain.Activity{}, fmt.Errorf("activity %q: %w", name, domain.ErrNotFound)
	}
	return a.Clone(), nil
}

// Save stores a copy of value, replacing any activity with the same name.
// PRE: value has been validated
// POST: GetByName(value.Name) returns an equal activity; a new name is appended to List order
func (s *MemoryStore) Save(_ context.Context, value domain.Activity) error {
	if err := value.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[value.Name]; !ok {
		s.order = append(s.order, value.Name)
	}
	s.byName[value.Name] = value.Clone()
	return nil
}

// List returns copies of every activity in first-saved order.
func (s *MemoryStore) List(_ context.Context) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.order, func(name string, _ int) domain.Activity {
		return s.byName[name].Clone()
	}), nil
}
