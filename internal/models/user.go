package models

import "time"

// User is an account. PasswordHash is a bcrypt hash; the plaintext password
// is never stored.
type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
