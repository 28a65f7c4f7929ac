package model

import "time"

// Collection groups prompts. Deleting one detaches its prompts rather than
// deleting them.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Clone returns a copy that shares no pointers with c.
func (c Collection) Clone() Collection {
	out := c
	out.Description = cloneString(c.Description)
	return out
}

type CollectionCreate struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type CollectionList struct {
	Collections []Collection `json:"collections"`
	Total       int          `json:"total"`
}
