package models

import "time"

// Admin holds one accepted admin code, stored as a bcrypt hash.
type Admin struct {
	ID        string    `json:"id" db:"id"`
	CodeHash  string    `json:"-" db:"code_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
