package models

// Standing is one row of the ranked table. Rank is positional: equal
// points and wins still get consecutive ranks.
type Standing struct {
	Rank    int    `json:"rank"`
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`

	TeamStats
}
