package store

import "github.com/google/uuid"

// SessionGenerator produces recording session tokens.
type SessionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 session tokens, so sessions
// listed by token sort in creation order.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
