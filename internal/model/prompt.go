// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Prompt is a text record with metadata, optionally filed in a Collection.
//
// OPTIONAL FIELDS AS POINTERS:
// Description and CollectionID are *string so "absent" (nil, serialised as null)
// is distinguishable from "present but empty". A prompt that is not in any
// collection has CollectionID == nil.
//
// Tags is always non-nil once a prompt leaves the store, so it serialises as []
// rather than null.
type Prompt struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Description  *string   `json:"description"`
	CollectionID *string   `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Tags         []Tag     `json:"tags"`
}

// Clone returns a deep copy so store callers never share slices or pointers
// with the stored value.
func (p Prompt) Clone() Prompt {
	c := p
	c.Description = cloneString(p.Description)
	c.CollectionID = cloneString(p.CollectionID)
	c.Tags = make([]Tag, len(p.Tags))
	copy(c.Tags, p.Tags)
	return c
}

// InCollection reports whether the prompt is filed under collectionID.
func (p Prompt) InCollection(collectionID string) bool {
	return p.CollectionID != nil && *p.CollectionID == collectionID
}

// HasTag reports whether the prompt carries a tag with exactly this name.
func (p Prompt) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// PromptCreate is the body accepted when creating a prompt.
type PromptCreate struct {
	Title        string  `json:"title"         validate:"required,max=200"`
	Content      string  `json:"content"       validate:"required"`
	Description  *string `json:"description"   validate:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
}

// PromptUpdate is the body for a full replace (PUT). Title and content are
// required; a nil Description or CollectionID clears the field.
type PromptUpdate struct {
	Title        string  `json:"title"         validate:"required,max=200"`
	Content      string  `json:"content"       validate:"required"`
	Description  *string `json:"description"   validate:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
}

// PromptPatch is the body for a partial update (PATCH). nil means "leave as is".
type PromptPatch struct {
	Title        *string `json:"title"         validate:"omitnil,min=1,max=200"`
	Content      *string `json:"content"       validate:"omitnil,min=1"`
	Description  *string `json:"description"   validate:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
}

// PromptList is the list endpoint's envelope.
type PromptList struct {
	Prompts []Prompt `json:"prompts"`
	Total   int      `json:"total"`
}

// PromptVariables describes the template placeholders found in a prompt.
type PromptVariables struct {
	PromptID     string   `json:"prompt_id"`
	Variables    []string `json:"variables"`
	ValidContent bool     `json:"valid_content"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
