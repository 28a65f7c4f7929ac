package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/metrics"
	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/query"
	"github.com/sakif/promptlab/internal/repository"
)

// TagService attaches and detaches tags. Tag names are matched exactly
// (case-sensitive) everywhere.
type TagService struct {
	store   repository.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewTagService(store repository.Store, logger *slog.Logger, m *metrics.Metrics) *TagService {
	return &TagService{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// Add attaches each name in in.Tags that the prompt does not already carry.
// Every new tag gets its own ID; duplicates in the request collapse to the
// first occurrence.
func (s *TagService) Add(ctx context.Context, promptID string, in model.TagsInput) (*model.Prompt, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	tags := make([]model.Tag, 0, len(in.Tags))
	sent := make(map[string]struct{}, len(in.Tags))
	for _, name := range in.Tags {
		t := model.Tag{ID: model.NewID(), Name: name}
		tags = append(tags, t)
		sent[t.ID] = struct{}{}
	}

	p, err := s.store.AddTagsToPrompt(ctx, promptID, tags)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to add tags",
			slog.String("prompt_id", promptID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding tags: %w", err)
	}

	// Only tags the store actually inserted carry one of our fresh IDs.
	added := 0
	for _, t := range p.Tags {
		if _, ok := sent[t.ID]; ok {
			added++
		}
	}
	s.metrics.TagsAdded(added)
	s.logger.Info("tags added",
		slog.String("prompt_id", promptID),
		slog.Int("added", added),
	)
	return p, nil
}

// List returns the prompt's tags in attach order; an untagged prompt yields
// an empty slice.
func (s *TagService) List(ctx context.Context, promptID string) ([]model.Tag, error) {
	return s.store.GetTagsForPrompt(ctx, promptID)
}

// Remove detaches the named tag. It fails with ErrNotFound when either the
// prompt or the tag is missing.
func (s *TagService) Remove(ctx context.Context, promptID, name string) (*model.Prompt, error) {
	p, err := s.store.RemoveTagFromPrompt(ctx, promptID, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to remove tag",
			slog.String("prompt_id", promptID),
			slog.String("tag", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("removing tag: %w", err)
	}

	s.metrics.TagRemoved()
	s.logger.Info("tag removed",
		slog.String("prompt_id", promptID),
		slog.String("tag", name),
	)
	return p, nil
}

// SearchByTag returns prompts carrying the tag, newest first.
func (s *TagService) SearchByTag(ctx context.Context, name string) ([]model.Prompt, error) {
	prompts, err := s.store.SearchPromptsByTag(ctx, name)
	if err != nil {
		s.logger.Error("failed to search prompts by tag",
			slog.String("tag", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("searching by tag: %w", err)
	}
	return query.SortByDate(prompts, true), nil
}
