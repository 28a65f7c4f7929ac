// Package repository declares the Store contract. Two backends implement it:
// repository/memory (maps) and repository/sqlite (modernc.org/sqlite).
//
// Absence is reported as an apperror.NotFound error; callers check it with
// errors.Is(err, apperror.ErrNotFound). Stores never validate cross-entity
// references; that is the service layer's job.
package repository

import (
	"context"

	"github.com/sakif/promptlab/internal/model"
)

type PromptRepository interface {
	// CreatePrompt stores p under p.ID, overwriting any existing value.
	CreatePrompt(ctx context.Context, p *model.Prompt) error
	GetPrompt(ctx context.Context, id string) (*model.Prompt, error)
	// ListPrompts returns every prompt in no particular order.
	ListPrompts(ctx context.Context) ([]model.Prompt, error)
	// UpdatePrompt replaces the stored fields of p but leaves the prompt's
	// tags as they are; tags change only through TagRepository.
	UpdatePrompt(ctx context.Context, id string, p *model.Prompt) error
	DeletePrompt(ctx context.Context, id string) error
	GetPromptsByCollection(ctx context.Context, collectionID string) ([]model.Prompt, error)
}

type CollectionRepository interface {
	CreateCollection(ctx context.Context, c *model.Collection) error
	GetCollection(ctx context.Context, id string) (*model.Collection, error)
	ListCollections(ctx context.Context) ([]model.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
}

type TagRepository interface {
	// AddTagsToPrompt merges tags into the prompt, skipping names it already
	// carries, and returns the updated prompt.
	AddTagsToPrompt(ctx context.Context, promptID string, tags []model.Tag) (*model.Prompt, error)
	// GetTagsForPrompt returns an empty slice for a prompt without tags and
	// NotFound only when the prompt itself is missing.
	GetTagsForPrompt(ctx context.Context, promptID string) ([]model.Tag, error)
	RemoveTagFromPrompt(ctx context.Context, promptID, tagName string) (*model.Prompt, error)
	SearchPromptsByTag(ctx context.Context, tagName string) ([]model.Prompt, error)
}

// Store is the single owner of prompt and collection state.
type Store interface {
	PromptRepository
	CollectionRepository
	TagRepository

	// Clear wipes all state. Used for test isolation.
	Clear(ctx context.Context) error
	Close() error
}
