// Package query holds pure functions over slices of prompts: sorting,
// filtering, searching and template inspection. Nothing here touches the store.
package query

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sakif/promptlab/internal/model"
)

// MinContentLength is the shortest trimmed content ValidateContent accepts.
const MinContentLength = 10

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// SortByDate returns a new slice ordered by CreatedAt. Pass descending=true
// for newest first. The sort is stable: prompts with equal timestamps keep
// their input order.
func SortByDate(prompts []model.Prompt, descending bool) []model.Prompt {
	out := slices.Clone(prompts)
	slices.SortStableFunc(out, func(a, b model.Prompt) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if descending {
			return -c
		}
		return c
	})
	return out
}

// FilterByCollection keeps prompts filed under collectionID. Prompts without a
// collection never match.
func FilterByCollection(prompts []model.Prompt, collectionID string) []model.Prompt {
	out := make([]model.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.InCollection(collectionID) {
			out = append(out, p)
		}
	}
	return out
}

// Search keeps prompts whose title or description contains q, ignoring case.
// Content is not searched. An empty q matches everything.
func Search(prompts []model.Prompt, q string) []model.Prompt {
	if q == "" {
		return slices.Clone(prompts)
	}
	needle := strings.ToLower(q)

	out := make([]model.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
			continue
		}
		if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// ValidateContent reports whether text has at least MinContentLength
// characters once leading and trailing whitespace is removed.
func ValidateContent(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinContentLength
}

// ExtractVariables returns the names of every well-formed {{name}} placeholder
// in order of appearance. Unterminated or malformed placeholders are skipped.
// The result is never nil.
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		vars = append(vars, m[1])
	}
	return vars
}
