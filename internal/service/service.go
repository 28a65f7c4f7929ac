// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes prompt and collection state
//
// Services take a repository.Store (interface), never a concrete backend, so
// the same rules run over the in-memory maps and over SQLite.
//
// Rules that live here and nowhere else:
//   - input validation (struct tags checked with go-playground/validator)
//   - collection_id must reference an existing collection on create/update
//   - updated_at moves strictly forward on every update
//   - deleting a collection detaches its prompts first
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/repository"
)

// clock returns the current time. Services default to model.Now; tests swap
// in a fixed or stepping clock.
type clock func() time.Time

// advance returns a timestamp strictly after prev. When the clock has not
// moved (coarse timers, fixed test clocks) it steps one nanosecond past prev.
func advance(now clock, prev time.Time) time.Time {
	t := now()
	if !t.After(prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}

// checkCollectionRef verifies that a non-nil collection reference points at
// an existing collection.
func checkCollectionRef(ctx context.Context, repo repository.CollectionRepository, collectionID *string) error {
	if collectionID == nil {
		return nil
	}

	if _, err := repo.GetCollection(ctx, *collectionID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidReference("collection_id", *collectionID)
		}
		return fmt.Errorf("checking collection %s: %w", *collectionID, err)
	}
	return nil
}
