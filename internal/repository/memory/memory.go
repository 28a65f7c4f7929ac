// Package memory implements repository.Store with two in-process maps.
// Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps prompts and collections keyed by ID.
//
// The mutex makes every method a single atomic step. net/http serves requests
// on many goroutines, and concurrent map writes panic. Service operations that
// read then write a prompt are last-writer-wins on its fields; tags are only
// changed by the tag methods, so a concurrent tag change is never lost.
type Store struct {
	mu          sync.RWMutex
	prompts     map[string]model.Prompt
	collections map[string]model.Collection
}

func New() *Store {
	return &Store{
		prompts:     make(map[string]model.Prompt),
		collections: make(map[string]model.Collection),
	}
}

func (s *Store) CreatePrompt(_ context.Context, p *model.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts[p.ID] = p.Clone()
	return nil
}

func (s *Store) GetPrompt(_ context.Context, id string) (*model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prompts[id]
	if !ok {
		return nil, apperror.NotFound("prompt", id)
	}
	out := p.Clone()
	return &out, nil
}

func (s *Store) ListPrompts(_ context.Context) ([]model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *Store) UpdatePrompt(_ context.Context, id string, p *model.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.prompts[id]
	if !ok {
		return apperror.NotFound("prompt", id)
	}
	next := p.Clone()
	next.Tags = existing.Tags
	s.prompts[id] = next
	return nil
}

func (s *Store) DeletePrompt(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[id]; !ok {
		return apperror.NotFound("prompt", id)
	}
	delete(s.prompts, id)
	return nil
}

func (s *Store) GetPromptsByCollection(_ context.Context, collectionID string) ([]model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Prompt, 0)
	for _, p := range s.prompts {
		if p.InCollection(collectionID) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *Store) CreateCollection(_ context.Context, c *model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[c.ID] = c.Clone()
	return nil
}

func (s *Store) GetCollection(_ context.Context, id string) (*model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[id]
	if !ok {
		return nil, apperror.NotFound("collection", id)
	}
	out := c.Clone()
	return &out, nil
}

func (s *Store) ListCollections(_ context.Context) ([]model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *Store) DeleteCollection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return apperror.NotFound("collection", id)
	}
	delete(s.collections, id)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.prompts)
	clear(s.collections)
	return nil
}

// Close is a no-op; it exists so both backends share one lifecycle.
func (s *Store) Close() error {
	return nil
}
