package entity

import "time"

// Session is the snapshot of one live connection's game.
type Session struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Outcome   Outcome   `json:"outcome"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
