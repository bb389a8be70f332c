package models

import (
	"database/sql"
	"time"
)

// Task belongs to exactly one list. Its effective owner is the list's owner;
// there is no direct user reference on the row.
type Task struct {
	ID          string
	ListID      string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   sql.NullTime
}
