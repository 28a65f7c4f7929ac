package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/metrics"
	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/repository"
)

type CollectionService struct {
	store   repository.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     clock
}

func NewCollectionService(store repository.Store, logger *slog.Logger, m *metrics.Metrics) *CollectionService {
	return &CollectionService{
		store:   store,
		logger:  logger,
		metrics: m,
		now:     model.Now,
	}
}

func (s *CollectionService) Create(ctx context.Context, in model.CollectionCreate) (*model.Collection, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c := &model.Collection{
		ID:          model.NewID(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   s.now(),
	}

	if err := s.store.CreateCollection(ctx, c); err != nil {
		s.logger.Error("failed to create collection",
			slog.String("name", in.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	s.metrics.CollectionCreated()
	s.logger.Info("collection created",
		slog.String("id", c.ID),
		slog.String("name", c.Name),
	)
	return c, nil
}

func (s *CollectionService) Get(ctx context.Context, id string) (*model.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// List returns every collection, newest first.
func (s *CollectionService) List(ctx context.Context) ([]model.Collection, error) {
	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		s.logger.Error("failed to list collections", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	slices.SortStableFunc(collections, func(a, b model.Collection) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return collections, nil
}

// Delete removes a collection after detaching every prompt filed under it.
//
// The steps are not atomic. If a detach fails the collection is left in
// place and the call can simply be retried: already-detached prompts no
// longer show up in GetPromptsByCollection.
func (s *CollectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetCollection(ctx, id); err != nil {
		return err
	}

	prompts, err := s.store.GetPromptsByCollection(ctx, id)
	if err != nil {
		return fmt.Errorf("listing prompts of collection %s: %w", id, err)
	}

	for i := range prompts {
		p := &prompts[i]
		p.CollectionID = nil
		p.UpdatedAt = advance(s.now, p.UpdatedAt)

		if err := s.store.UpdatePrompt(ctx, p.ID, p); err != nil {
			s.logger.Error("failed to detach prompt from collection",
				slog.String("collection_id", id),
				slog.String("prompt_id", p.ID),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("detaching prompt %s: %w", p.ID, err)
		}
		s.logger.Info("prompt detached from collection",
			slog.String("collection_id", id),
			slog.String("prompt_id", p.ID),
		)
	}

	if err := s.store.DeleteCollection(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete collection",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting collection: %w", err)
	}

	s.metrics.CollectionDeleted(len(prompts))
	s.logger.Info("collection deleted",
		slog.String("id", id),
		slog.Int("detached_prompts", len(prompts)),
	)
	return nil
}
