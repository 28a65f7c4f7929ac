// Package repotest is a behavioural test suite every repository.Store backend
// must pass. Backends call Run from their own _test.go files.
package repotest

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/model"
	"github.com/sakif/promptlab/internal/repository"
)

// NewStore returns a fresh, empty store. Cleanup is the factory's job.
type NewStore func(t *testing.T) repository.Store

// Run executes the whole contract against stores built by newStore.
func Run(t *testing.T, newStore NewStore) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"CreateAndGetPrompt", testCreateAndGetPrompt},
		{"CreatePromptOverwrites", testCreatePromptOverwrites},
		{"GetPromptNotFound", testGetPromptNotFound},
		{"ListPrompts", testListPrompts},
		{"UpdatePrompt", testUpdatePrompt},
		{"UpdatePromptNotFound", testUpdatePromptNotFound},
		{"DeletePrompt", testDeletePrompt},
		{"ReturnedValuesAreCopies", testReturnedValuesAreCopies},
		{"Collections", testCollections},
		{"DeleteCollectionNotFound", testDeleteCollectionNotFound},
		{"GetPromptsByCollection", testGetPromptsByCollection},
		{"AddTagsDeduplicates", testAddTagsDeduplicates},
		{"AddTagsNotFound", testAddTagsNotFound},
		{"GetTagsForPrompt", testGetTagsForPrompt},
		{"RemoveTag", testRemoveTag},
		{"RemoveTagNotFound", testRemoveTagNotFound},
		{"SearchPromptsByTag", testSearchPromptsByTag},
		{"UpdatePreservesTags", testUpdatePreservesTags},
		{"UpdatePromptKeepsTags", testUpdatePromptKeepsTags},
		{"DeletePromptDropsTags", testDeletePromptDropsTags},
		{"Clear", testClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

var base = time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)

func strPtr(s string) *string { return &s }

func newPrompt(id, title string, offset time.Duration) *model.Prompt {
	ts := base.Add(offset)
	return &model.Prompt{
		ID:        id,
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: ts,
		UpdatedAt: ts,
		Tags:      []model.Tag{},
	}
}

func mustCreatePrompt(t *testing.T, s repository.Store, p *model.Prompt) {
	t.Helper()
	require.NoError(t, s.CreatePrompt(context.Background(), p))
}

func ids(prompts []model.Prompt) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, p.ID)
	}
	sort.Strings(out)
	return out
}

func tagNames(tags []model.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)
}

func testCreateAndGetPrompt(t *testing.T, s repository.Store) {
	ctx := context.Background()
	p := newPrompt("p1", "Hello", 0)
	p.Description = strPtr("a description")
	p.CollectionID = strPtr("c1")
	mustCreatePrompt(t, s, p)

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "content of Hello", got.Content)
	require.NotNil(t, got.Description)
	assert.Equal(t, "a description", *got.Description)
	require.NotNil(t, got.CollectionID)
	assert.Equal(t, "c1", *got.CollectionID)
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt), "CreatedAt = %v, want %v", got.CreatedAt, p.CreatedAt)
	assert.True(t, got.UpdatedAt.Equal(p.UpdatedAt), "UpdatedAt = %v, want %v", got.UpdatedAt, p.UpdatedAt)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func testCreatePromptOverwrites(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "first", 0))
	mustCreatePrompt(t, s, newPrompt("p1", "second", 0))

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)

	all, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testGetPromptNotFound(t *testing.T, s repository.Store) {
	_, err := s.GetPrompt(context.Background(), "missing")
	assertNotFound(t, err)
}

func testListPrompts(t *testing.T, s repository.Store) {
	ctx := context.Background()

	empty, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	mustCreatePrompt(t, s, newPrompt("p1", "one", 0))
	mustCreatePrompt(t, s, newPrompt("p2", "two", time.Second))

	all, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(all))
}

func testUpdatePrompt(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "before", 0))

	next := newPrompt("p1", "after", 0)
	next.UpdatedAt = base.Add(time.Minute)
	next.Description = strPtr("now described")
	require.NoError(t, s.UpdatePrompt(ctx, "p1", next))

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "now described", *got.Description)
	assert.True(t, got.UpdatedAt.Equal(base.Add(time.Minute)))
}

func testUpdatePromptKeepsTags(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "before", 0))

	stale, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)

	_, err = s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)

	stale.Title = "after"
	require.NoError(t, s.UpdatePrompt(ctx, "p1", stale))

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, []string{"AI"}, tagNames(got.Tags))
}

func testUpdatePromptNotFound(t *testing.T, s repository.Store) {
	err := s.UpdatePrompt(context.Background(), "missing", newPrompt("missing", "x", 0))
	assertNotFound(t, err)
}

func testDeletePrompt(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "doomed", 0))

	require.NoError(t, s.DeletePrompt(ctx, "p1"))

	_, err := s.GetPrompt(ctx, "p1")
	assertNotFound(t, err)

	assertNotFound(t, s.DeletePrompt(ctx, "p1"))
}

func testReturnedValuesAreCopies(t *testing.T, s repository.Store) {
	ctx := context.Background()
	p := newPrompt("p1", "original", 0)
	mustCreatePrompt(t, s, p)

	// Mutating the caller's value after the write must not leak into the store.
	p.Title = "mutated"

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)

	got.Title = "mutated again"
	again, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func testCollections(t *testing.T, s repository.Store) {
	ctx := context.Background()
	c := &model.Collection{ID: "c1", Name: "Coding", Description: strPtr("code prompts"), CreatedAt: base}
	require.NoError(t, s.CreateCollection(ctx, c))
	require.NoError(t, s.CreateCollection(ctx, &model.Collection{ID: "c2", Name: "Writing", CreatedAt: base}))

	got, err := s.GetCollection(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Coding", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "code prompts", *got.Description)
	assert.True(t, got.CreatedAt.Equal(base))

	all, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteCollection(ctx, "c1"))
	_, err = s.GetCollection(ctx, "c1")
	assertNotFound(t, err)

	_, err = s.GetCollection(ctx, "c2")
	assert.NoError(t, err)
}

func testDeleteCollectionNotFound(t *testing.T, s repository.Store) {
	assertNotFound(t, s.DeleteCollection(context.Background(), "missing"))
}

func testGetPromptsByCollection(t *testing.T, s repository.Store) {
	ctx := context.Background()
	in1 := newPrompt("p1", "in", 0)
	in1.CollectionID = strPtr("c1")
	in2 := newPrompt("p2", "also in", 0)
	in2.CollectionID = strPtr("c1")
	other := newPrompt("p3", "other", 0)
	other.CollectionID = strPtr("c2")
	none := newPrompt("p4", "none", 0)
	for _, p := range []*model.Prompt{in1, in2, other, none} {
		mustCreatePrompt(t, s, p)
	}

	got, err := s.GetPromptsByCollection(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(got))

	got, err = s.GetPromptsByCollection(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testAddTagsDeduplicates(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "tagged", 0))

	got, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{
		{ID: "t1", Name: "AI"},
		{ID: "t2", Name: "AI"},
		{ID: "t3", Name: "Machine Learning"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "Machine Learning"}, tagNames(got.Tags))

	got, err = s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t4", Name: "AI"}, {ID: "t5", Name: "NLP"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "Machine Learning", "NLP"}, tagNames(got.Tags))
	// The first "AI" entry is the one retained; inserted tags keep their IDs.
	assert.Equal(t, "t1", got.Tags[0].ID)
	assert.Equal(t, "t5", got.Tags[2].ID)
}

func testAddTagsNotFound(t *testing.T, s repository.Store) {
	_, err := s.AddTagsToPrompt(context.Background(), "missing", []model.Tag{{ID: "t1", Name: "AI"}})
	assertNotFound(t, err)
}

func testGetTagsForPrompt(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "untagged", 0))

	tags, err := s.GetTagsForPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)

	_, err = s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)

	tags, err = s.GetTagsForPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"AI"}, tagNames(tags))

	_, err = s.GetTagsForPrompt(ctx, "missing")
	assertNotFound(t, err)
}

func testRemoveTag(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "tagged", 0))
	_, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}, {ID: "t2", Name: "Machine Learning"}})
	require.NoError(t, err)

	got, err := s.RemoveTagFromPrompt(ctx, "p1", "AI")
	require.NoError(t, err)
	assert.Equal(t, []string{"Machine Learning"}, tagNames(got.Tags))

	stored, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Machine Learning"}, tagNames(stored.Tags))
}

func testRemoveTagNotFound(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "tagged", 0))
	_, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)

	_, err = s.RemoveTagFromPrompt(ctx, "p1", "Nonexistent")
	assertNotFound(t, err)

	_, err = s.RemoveTagFromPrompt(ctx, "p1", "ai")
	assertNotFound(t, err)

	_, err = s.RemoveTagFromPrompt(ctx, "missing", "AI")
	assertNotFound(t, err)
}

func testSearchPromptsByTag(t *testing.T, s repository.Store) {
	ctx := context.Background()
	for _, p := range []*model.Prompt{newPrompt("p1", "a", 0), newPrompt("p2", "b", 0), newPrompt("p3", "c", 0)} {
		mustCreatePrompt(t, s, p)
	}
	_, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)
	_, err = s.AddTagsToPrompt(ctx, "p2", []model.Tag{{ID: "t2", Name: "AI"}, {ID: "t3", Name: "NLP"}})
	require.NoError(t, err)

	got, err := s.SearchPromptsByTag(ctx, "AI")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(got))

	got, err = s.SearchPromptsByTag(ctx, "ai")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.SearchPromptsByTag(ctx, "A-I")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testUpdatePreservesTags(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "tagged", 0))
	tagged, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)

	tagged.Title = "renamed"
	tagged.CollectionID = nil
	require.NoError(t, s.UpdatePrompt(ctx, "p1", tagged))

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, []string{"AI"}, tagNames(got.Tags))
}

func testDeletePromptDropsTags(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "tagged", 0))
	_, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)

	require.NoError(t, s.DeletePrompt(ctx, "p1"))

	got, err := s.SearchPromptsByTag(ctx, "AI")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testClear(t *testing.T, s repository.Store) {
	ctx := context.Background()
	mustCreatePrompt(t, s, newPrompt("p1", "a", 0))
	_, err := s.AddTagsToPrompt(ctx, "p1", []model.Tag{{ID: "t1", Name: "AI"}})
	require.NoError(t, err)
	require.NoError(t, s.CreateCollection(ctx, &model.Collection{ID: "c1", Name: "c", CreatedAt: base}))

	require.NoError(t, s.Clear(ctx))

	prompts, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Empty(t, prompts)

	collections, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, collections)

	tagged, err := s.SearchPromptsByTag(ctx, "AI")
	require.NoError(t, err)
	assert.Empty(t, tagged)
}
