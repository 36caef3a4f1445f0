package models

import "time"

// DefaultRole is assigned to accounts provisioned without an explicit role.
const DefaultRole = "user"

// User is a stored dashboard account. PasswordHash is a bcrypt hash and must
// never leave the repository/service boundary (not in tokens, logs, or
// responses).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
