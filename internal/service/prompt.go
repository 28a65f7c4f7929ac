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

// ListFilter narrows PromptService.List. Zero values mean "no filter".
type ListFilter struct {
	CollectionID string
	Search       string
}

// PromptService handles business logic for prompts.
type PromptService struct {
	store   repository.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     clock
}

// NewPromptService creates a new PromptService. m may be nil.
func NewPromptService(store repository.Store, logger *slog.Logger, m *metrics.Metrics) *PromptService {
	return &PromptService{
		store:   store,
		logger:  logger,
		metrics: m,
		now:     model.Now,
	}
}

// Create validates in, checks the collection reference and stores a new
// prompt with a fresh ID and created_at == updated_at.
func (s *PromptService) Create(ctx context.Context, in model.PromptCreate) (*model.Prompt, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkCollectionRef(ctx, s.store, in.CollectionID); err != nil {
		return nil, err
	}

	ts := s.now()
	p := &model.Prompt{
		ID:           model.NewID(),
		Title:        in.Title,
		Content:      in.Content,
		Description:  in.Description,
		CollectionID: in.CollectionID,
		CreatedAt:    ts,
		UpdatedAt:    ts,
		Tags:         []model.Tag{},
	}

	if err := s.store.CreatePrompt(ctx, p); err != nil {
		s.logger.Error("failed to create prompt",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating prompt: %w", err)
	}

	s.metrics.PromptCreated()
	s.logger.Info("prompt created",
		slog.String("id", p.ID),
		slog.String("title", p.Title),
	)

	return p, nil
}

// Get returns apperror.ErrNotFound if the prompt doesn't exist.
func (s *PromptService) Get(ctx context.Context, id string) (*model.Prompt, error) {
	return s.store.GetPrompt(ctx, id)
}

// List applies the collection filter, then the search, then sorts newest
// first.
func (s *PromptService) List(ctx context.Context, f ListFilter) ([]model.Prompt, error) {
	prompts, err := s.store.ListPrompts(ctx)
	if err != nil {
		s.logger.Error("failed to list prompts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing prompts: %w", err)
	}

	if f.CollectionID != "" {
		prompts = query.FilterByCollection(prompts, f.CollectionID)
	}
	if f.Search != "" {
		prompts = query.Search(prompts, f.Search)
	}
	return query.SortByDate(prompts, true), nil
}

// Update replaces title, content, description and collection_id. ID,
// created_at and tags are kept; a nil description or collection_id clears it.
func (s *PromptService) Update(ctx context.Context, id string, in model.PromptUpdate) (*model.Prompt, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCollectionRef(ctx, s.store, in.CollectionID); err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.Content = in.Content
	existing.Description = in.Description
	existing.CollectionID = in.CollectionID
	existing.UpdatedAt = advance(s.now, existing.UpdatedAt)

	saved, err := s.save(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.metrics.PromptUpdated("full")
	s.logger.Info("prompt updated", slog.String("id", id))
	return saved, nil
}

// Patch changes only the fields that are non-nil in in. An empty patch still
// refreshes updated_at.
func (s *PromptService) Patch(ctx context.Context, id string, in model.PromptPatch) (*model.Prompt, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCollectionRef(ctx, s.store, in.CollectionID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		existing.Title = *in.Title
	}
	if in.Content != nil {
		existing.Content = *in.Content
	}
	if in.Description != nil {
		existing.Description = in.Description
	}
	if in.CollectionID != nil {
		existing.CollectionID = in.CollectionID
	}
	existing.UpdatedAt = advance(s.now, existing.UpdatedAt)

	saved, err := s.save(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.metrics.PromptUpdated("partial")
	s.logger.Info("prompt patched", slog.String("id", id))
	return saved, nil
}

// save writes p's fields and returns the prompt as stored, so tags attached
// since p was read are included.
func (s *PromptService) save(ctx context.Context, p *model.Prompt) (*model.Prompt, error) {
	if err := s.store.UpdatePrompt(ctx, p.ID, p); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update prompt",
			slog.String("id", p.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating prompt: %w", err)
	}
	return s.store.GetPrompt(ctx, p.ID)
}

// Delete removes a prompt and its tags.
func (s *PromptService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePrompt(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete prompt",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting prompt: %w", err)
	}

	s.metrics.PromptDeleted()
	s.logger.Info("prompt deleted", slog.String("id", id))
	return nil
}

// Variables lists the {{name}} placeholders in a stored prompt's content and
// reports whether the content passes the minimum-length check.
func (s *PromptService) Variables(ctx context.Context, id string) (*model.PromptVariables, error) {
	p, err := s.store.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.PromptVariables{
		PromptID:     p.ID,
		Variables:    query.ExtractVariables(p.Content),
		ValidContent: query.ValidateContent(p.Content),
	}, nil
}
