package models

import "time"

// Call is a single number drawn during a game.
type Call struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GameID   uint      `gorm:"index;not null" json:"game_id"`
	Sequence int       `json:"sequence"` // 1-based draw position
	Number   int       `json:"number"`
	Letter   string    `gorm:"size:1" json:"letter"`
	CalledAt time.Time `json:"called_at"`
}
