// Package models contains the persistent row types shared by repositories and
// services.
package models

import (
	"database/sql"
	"time"
)

// User is the identity root. Username is optional (email-only accounts);
// Email is always present and unique.
type User struct {
	ID           string
	Username     sql.NullString
	Email        string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
}
