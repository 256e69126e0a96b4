// Package models defines the persisted entities and request payloads.
package models

import "time"

// Todo is a single task owned by exactly one user. Description is a
// pointer because the column is nullable.
type Todo struct {
	ID          int       `json:"id,omitempty"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// TodoCreateRequest is the create payload. Completed and the owner are
// never read from the client: new todos start incomplete and belong to
// the session user.
type TodoCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// TodoUpdateRequest is a partial update: only non-nil fields are merged
// onto the stored record.
type TodoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
