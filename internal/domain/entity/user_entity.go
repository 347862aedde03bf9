package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential store.
// Passwords are stored as bcrypt hashes in PasswordHash and never leave the server.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail is the canonical form used for storage and lookups,
// which makes the one-user-per-email rule case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
