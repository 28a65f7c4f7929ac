package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/promptlab/internal/model"
)

func strPtr(s string) *string { return &s }

func titles(prompts []model.Prompt) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, p.Title)
	}
	return out
}

// =========================================================================
// SORT TESTS
// =========================================================================

func TestSortByDate_DescendingNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	prompts := []model.Prompt{
		{Title: "oldest", CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "newest", CreatedAt: now},
		{Title: "middle", CreatedAt: now.Add(-1 * time.Hour)},
	}

	got := SortByDate(prompts, true)

	assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(got))
}

func TestSortByDate_Ascending(t *testing.T) {
	now := time.Now().UTC()
	prompts := []model.Prompt{
		{Title: "newest", CreatedAt: now},
		{Title: "oldest", CreatedAt: now.Add(-48 * time.Hour)},
		{Title: "middle", CreatedAt: now.Add(-24 * time.Hour)},
	}

	got := SortByDate(prompts, false)

	assert.Equal(t, []string{"oldest", "middle", "newest"}, titles(got))
}

func TestSortByDate_StableOnIdenticalTimestamps(t *testing.T) {
	same := time.Now().UTC()
	prompts := []model.Prompt{
		{Title: "first", CreatedAt: same},
		{Title: "second", CreatedAt: same},
		{Title: "third", CreatedAt: same},
	}

	for _, descending := range []bool{true, false} {
		got := SortByDate(prompts, descending)
		assert.Equal(t, []string{"first", "second", "third"}, titles(got), "descending=%v", descending)
	}
}

func TestSortByDate_DoesNotMutateInput(t *testing.T) {
	now := time.Now().UTC()
	prompts := []model.Prompt{
		{Title: "a", CreatedAt: now.Add(-time.Hour)},
		{Title: "b", CreatedAt: now},
	}

	SortByDate(prompts, true)

	assert.Equal(t, []string{"a", "b"}, titles(prompts))
}

func TestSortByDate_Empty(t *testing.T) {
	assert.Empty(t, SortByDate(nil, true))
	assert.Empty(t, SortByDate([]model.Prompt{}, false))
}

// =========================================================================
// FILTER TESTS
// =========================================================================

func TestFilterByCollection(t *testing.T) {
	prompts := []model.Prompt{
		{Title: "p1", CollectionID: strPtr("collection_1")},
		{Title: "p2", CollectionID: strPtr("collection_2")},
		{Title: "p3", CollectionID: strPtr("collection_1")},
		{Title: "p4"},
	}

	tests := []struct {
		name         string
		collectionID string
		want         []string
	}{
		{"matches", "collection_1", []string{"p1", "p3"}},
		{"no matches", "non_existent", []string{}},
		{"absent collection never matches empty id", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(FilterByCollection(prompts, tt.collectionID)))
		})
	}
}

func TestFilterByCollection_Empty(t *testing.T) {
	assert.Empty(t, FilterByCollection(nil, "collection_1"))
}

// =========================================================================
// SEARCH TESTS
// =========================================================================

func TestSearch_TitleOrDescription(t *testing.T) {
	prompts := []model.Prompt{
		{Title: "Introduction to Python", Content: "c", Description: strPtr("Beginner-friendly intro")},
		{Title: "Advanced", Content: "c", Description: strPtr("Advanced topics in Python")},
		{Title: "JavaScript Guide", Content: "Python mentioned only in content"},
	}

	got := Search(prompts, "Python")

	assert.Equal(t, []string{"Introduction to Python", "Advanced"}, titles(got))
}

func TestSearch_CaseInsensitive(t *testing.T) {
	prompts := []model.Prompt{
		{Title: "Data Science with Python"},
		{Title: "Python for Data Analysis"},
		{Title: "Rust"},
	}

	lower := Search(prompts, "python")
	upper := Search(prompts, "PYTHON")

	assert.Len(t, lower, 2)
	assert.Equal(t, titles(lower), titles(upper))
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	prompts := []model.Prompt{{Title: "a"}, {Title: "b"}}
	assert.Equal(t, []string{"a", "b"}, titles(Search(prompts, "")))
}

func TestSearch_NoMatches(t *testing.T) {
	prompts := []model.Prompt{{Title: "Data Science"}, {Title: "Machine Learning"}}
	assert.Empty(t, Search(prompts, "JavaScript"))
	assert.Empty(t, Search(nil, "Python"))
}

// =========================================================================
// VALIDATE CONTENT TESTS
// =========================================================================

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"sufficient length", "This is a valid prompt with sufficient length.", true},
		{"exactly minimum length", "1234567890", true},
		{"one short of minimum", "123456789", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"ten spaces", "          ", false},
		{"too short", "Too short", false},
		{"padded but long enough", "    Valid content with spaces    ", true},
		{"padding does not count", "   123456789   ", false},
		{"multibyte characters counted as runes", "ääääääääää", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateContent(tt.text))
		})
	}
}

// =========================================================================
// EXTRACT VARIABLES TESTS
// =========================================================================

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"two variables", "Hello, {{name}}! ID {{id}}.", []string{"name", "id"}},
		{"underscored names", "Hello, {{name}}! Your ID is {{id_number}}.", []string{"name", "id_number"}},
		{"no variables", "Hello, World! No variables here.", []string{}},
		{"unterminated", "{{unterminated and {{another", []string{}},
		{"malformed mix", "Hello, {{name}! Unfinished {{variable and a {{another", []string{}},
		{"malformed does not abort scan", "{{broken} then {{ok}} and {{fine}}", []string{"ok", "fine"}},
		{"repeated variable kept", "{{x}} and {{x}}", []string{"x", "x"}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.text)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
