package models

import (
	"database/sql"
	"time"
)

// List is a user-owned task list. Every list has exactly one owner.
type List struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
	UpdatedAt sql.NullTime
}
