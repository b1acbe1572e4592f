package models

// Player belongs to exactly one team and is removed together with it.
type Player struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Number int    `json:"number" db:"number"`
	Role   string `json:"role" db:"role"`
}
