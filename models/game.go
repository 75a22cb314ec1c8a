package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	GameStatusInProgress = "in_progress"
	GameStatusFinished   = "finished"
)

// Why a game record was closed.
const (
	EndCelebrated = "celebrated" // end requested and celebration completed
	EndReset      = "reset"      // caller cleared the board
	EndRestarted  = "restarted"  // start pressed mid-game
	EndShutdown   = "shutdown"   // lobby removed or server stopped
)

// Game is the archived record of one calling session in a lobby.
type Game struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	LobbyID     string         `gorm:"index;not null" json:"lobby_id"`
	RoundNumber int            `json:"round_number"`
	Status      string         `json:"status"` // in_progress | finished
	EndReason   string         `json:"end_reason,omitempty"`
	CallCount   int            `json:"call_count"`
	NumbersJSON datatypes.JSON `json:"numbers"` // called numbers in draw order
	StartTime   time.Time      `json:"start_time"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
