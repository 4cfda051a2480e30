package db

import "time"

// User is a registered account. PasswordHash never leaves the storage and
// sec package boundary; response payloads are built from the other fields.
type User struct {
	ID           uint64
	Email        string
	Name         string
	PasswordHash []byte
	Active       bool
	CreatedAt    time.Time
}
