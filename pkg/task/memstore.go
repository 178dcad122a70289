package task

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory project store. It hands out the stored
// *Project values, so callers mutating a project see it on the next Get.
type MemStore struct {
	mu       sync.RWMutex
	projects []*Project
	byID     map[int]*Project
}

// NewMemStore creates a MemStore holding the given projects.
func NewMemStore(projects ...*Project) (*MemStore, error) {
	s := &MemStore{byID: make(map[int]*Project)}
	for _, p := range projects {
		if err := s.Add(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get retrieves a project by id.
func (s *MemStore) Get(_ context.Context, id int) (*Project, error) {
	s.mu.RLock()
	p, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get project %d: %w", id, ErrProjectNotFound)
	}
	return p, nil
}

// List returns all projects in the order they were added.
func (s *MemStore) List(_ context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Project, len(s.projects))
	copy(out, s.projects)
	return out, nil
}

// Add stores p.
func (s *MemStore) Add(_ context.Context, p *Project) error {
	if p == nil {
		return fmt.Errorf("add project: nil project")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; ok {
		return fmt.Errorf("add project %d: %w", p.ID, ErrDuplicateProject)
	}
	s.projects = append(s.projects, p)
	s.byID[p.ID] = p
	return nil
}
