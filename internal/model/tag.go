package model

// Tag is a label attached to exactly one prompt. Two prompts tagged "AI" hold
// two independent Tag records with different IDs.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagsInput is the body accepted when attaching tags to a prompt.
type TagsInput struct {
	Tags []string `json:"tags" validate:"required,min=1,dive,notblank"`
}
