package models

import "time"

// User is an identity record owned by the credential store. UserName is
// stored normalized (trimmed, lower-cased) and is unique.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
