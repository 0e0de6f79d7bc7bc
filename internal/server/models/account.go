// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user. SessionToken is nil until the first
// successful login and is overwritten by every later one.
type Account struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	SessionToken *uuid.UUID `db:"session_token"`
	CreatedAt    time.Time  `db:"created_at"`
}
