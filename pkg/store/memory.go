package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/graphweave/pkg/errors"
)

// MemoryStore is an in-memory project store. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]Project)}
}

// Create stores a new project.
func (s *MemoryStore) Create(ctx context.Context, p *Project) error {
	prepare(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[p.ID]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "project %s already exists", p.ID)
	}
	s.projects[p.ID] = *p
	return nil
}

// Get retrieves a project by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	return &p, nil
}

// List returns all projects, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Project, 0, len(s.projects))
	for id := range s.projects {
		p := s.projects[id]
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a stored project.
func (s *MemoryStore) Update(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.projects[p.ID]
	if !ok {
		return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", p.ID)
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.projects[p.ID] = *p
	return nil
}

// Delete removes a project.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	delete(s.projects, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
