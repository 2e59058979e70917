package models

import "time"

// Idea represents a user's submitted product concept, the root entity for a
// generation session. Immutable after creation except for the public flag.
type Idea struct {
	ID          string    `json:"id"` // idea_{uuid}
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Documents generated for this idea, attached by list operations
	Documents []*Document `json:"documents,omitempty" badgerhold:"-"`
}
