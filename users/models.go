// Package users is the credential store of the application: it persists user records
// (username, email, password hash) and answers lookups by id, username and email.
// Authentication itself (sessions, login, logout) lives in package auth, which builds on this one.
package users

import "time"

// User represents a registered account.
// The `db` tags map columns for sqlx; `json:"-"` keeps the hash out of every response.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Messages surfaced as field errors when an identifier is already taken.
const (
	UsernameTakenMessage = "Username already in use."
	EmailTakenMessage    = "Email address already in use."
)
