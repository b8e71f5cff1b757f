package models

import "time"

// DefaultProjectID is the project created on first run. It cannot be
// deleted; documents uploaded without an explicit project land here.
const DefaultProjectID = "proj_default"

// Project groups documents and Q&A history for one engagement.
type Project struct {
	ID          string    `json:"id" badgerhold:"key"` // proj_{uuid}
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
