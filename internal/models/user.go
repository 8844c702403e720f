// Package models defines data models persisted in the database.
package models

// User is an account row. Salt and PasswordHash are rewritten together on
// every password change.
type User struct {
	ID           int64
	UserName     string
	Salt         string
	PasswordHash string
	// Deleted is declared by the schema; nothing sets it.
	Deleted bool
}
