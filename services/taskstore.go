package services

import (
	"context"
	"sync"

	"tasklist/model"
)

// TaskStore is an ordered key-value map from task id to task record.
// Iteration order is insertion order; overwriting a key keeps its position.
type TaskStore interface {
	Insert(ctx context.Context, id string, t model.Task) error
	Get(ctx context.Context, id string) (model.Task, bool, error)
	Remove(ctx context.Context, id string) (model.Task, bool, error)
	Values(ctx context.Context) ([]model.Task, error)
	Clear(ctx context.Context) error

	// Update replaces the record at id with fn's result as one atomic step.
	// fn is not called when id is absent.
	Update(ctx context.Context, id string, fn func(model.Task) (model.Task, error)) (model.Task, bool, error)

	// Replace hands fn a snapshot of every record and swaps the store
	// contents for the records fn returns, as one atomic step. An error
	// from fn leaves the store unchanged.
	Replace(ctx context.Context, fn func([]model.Task) ([]model.Task, error)) ([]model.Task, error)
}

// MemoryStore is an in-process TaskStore.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]model.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]model.Task)}
}

func (s *MemoryStore) Insert(_ context.Context, id string, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, t)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, false, nil
	}
	return t.Clone(), true, nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, false, nil
	}
	delete(s.tasks, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return t, true, nil
}

func (s *MemoryStore) Values(_ context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(model.Task) (model.Task, error)) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tasks[id]
	if !ok {
		return model.Task{}, false, nil
	}
	next, err := fn(cur.Clone())
	if err != nil {
		return model.Task{}, true, err
	}
	s.put(id, next)
	return next.Clone(), true, nil
}

func (s *MemoryStore) Replace(_ context.Context, fn func([]model.Task) ([]model.Task, error)) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep, err := fn(s.snapshot())
	if err != nil {
		return nil, err
	}
	s.reset()
	for _, t := range keep {
		s.put(t.ID, t)
	}
	return s.snapshot(), nil
}

func (s *MemoryStore) put(id string, t model.Task) {
	if _, exists := s.tasks[id]; !exists {
		s.order = append(s.order, id)
	}
	s.tasks[id] = t.Clone()
}

func (s *MemoryStore) reset() {
	s.order = nil
	s.tasks = make(map[string]model.Task)
}

func (s *MemoryStore) snapshot() []model.Task {
	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].Clone())
	}
	return out
}

var _ TaskStore = (*MemoryStore)(nil)
