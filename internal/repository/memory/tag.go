package memory

import (
	"context"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/model"
)

func (s *Store) AddTagsToPrompt(_ context.Context, promptID string, tags []model.Tag) (*model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[promptID]
	if !ok {
		return nil, apperror.NotFound("prompt", promptID)
	}

	p = p.Clone()
	for _, t := range tags {
		// Checked against the growing slice, so duplicates inside tags collapse too.
		if p.HasTag(t.Name) {
			continue
		}
		p.Tags = append(p.Tags, t)
	}
	s.prompts[promptID] = p

	out := p.Clone()
	return &out, nil
}

func (s *Store) GetTagsForPrompt(_ context.Context, promptID string) ([]model.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prompts[promptID]
	if !ok {
		return nil, apperror.NotFound("prompt", promptID)
	}
	return p.Clone().Tags, nil
}

func (s *Store) RemoveTagFromPrompt(_ context.Context, promptID, tagName string) (*model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[promptID]
	if !ok {
		return nil, apperror.NotFound("prompt", promptID)
	}
	if !p.HasTag(tagName) {
		return nil, apperror.TagNotFound(promptID, tagName)
	}

	kept := make([]model.Tag, 0, len(p.Tags)-1)
	for _, t := range p.Tags {
		if t.Name != tagName {
			kept = append(kept, t)
		}
	}
	p = p.Clone()
	p.Tags = kept
	s.prompts[promptID] = p

	out := p.Clone()
	return &out, nil
}

func (s *Store) SearchPromptsByTag(_ context.Context, tagName string) ([]model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Prompt, 0)
	for _, p := range s.prompts {
		if p.HasTag(tagName) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}
