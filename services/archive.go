package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Archive keeps a record of every calling session. It is write-only from the
// lobby's point of view; nothing is ever restored from it.
type Archive interface {
	OpenGame(ctx context.Context, lobbyID string) (uint, error)
	RecordCall(ctx context.Context, gameID uint, sequence int, ball game.Ball) error
	CloseGame(ctx context.Context, gameID uint, reason string, called []int) error
	ListGames(ctx context.Context, lobbyID string, limit int) ([]models.Game, error)
}

// GormArchive stores games and calls through gorm.
type GormArchive struct {
	db *gorm.DB
}

func NewGormArchive(db *gorm.DB) *GormArchive {
	return &GormArchive{db: db}
}

func (a *GormArchive) OpenGame(ctx context.Context, lobbyID string) (uint, error) {
	var last models.Game
	next := 1
	err := a.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		Order("round_number DESC").
		First(&last).Error
	switch {
	case err == nil:
		next = last.RoundNumber + 1
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, fmt.Errorf("find last round: %w", err)
	}

	g := models.Game{
		LobbyID:     lobbyID,
		RoundNumber: next,
		Status:      models.GameStatusInProgress,
		NumbersJSON: datatypes.JSON([]byte("[]")),
		StartTime:   time.Now(),
	}
	if err := a.db.WithContext(ctx).Create(&g).Error; err != nil {
		return 0, fmt.Errorf("create game: %w", err)
	}
	return g.ID, nil
}

func (a *GormArchive) RecordCall(ctx context.Context, gameID uint, sequence int, ball game.Ball) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		call := models.Call{
			GameID:   gameID,
			Sequence: sequence,
			Number:   ball.Number,
			Letter:   string(ball.Letter),
			CalledAt: time.Now(),
		}
		if err := tx.Create(&call).Error; err != nil {
			return fmt.Errorf("create call: %w", err)
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).
			Update("call_count", sequence).Error; err != nil {
			return fmt.Errorf("update call count: %w", err)
		}
		return nil
	})
}

func (a *GormArchive) CloseGame(ctx context.Context, gameID uint, reason string, called []int) error {
	if called == nil {
		called = []int{}
	}
	numbers, err := json.Marshal(called)
	if err != nil {
		return fmt.Errorf("marshal numbers: %w", err)
	}
	now := time.Now()
	err = a.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", gameID).Updates(map[string]any{
		"status":       models.GameStatusFinished,
		"end_reason":   reason,
		"end_time":     &now,
		"call_count":   len(called),
		"numbers_json": datatypes.JSON(numbers),
	}).Error
	if err != nil {
		return fmt.Errorf("close game: %w", err)
	}
	return nil
}

func (a *GormArchive) ListGames(ctx context.Context, lobbyID string, limit int) ([]models.Game, error) {
	q := a.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if lobbyID != "" {
		q = q.Where("lobby_id = ?", lobbyID)
	}
	var games []models.Game
	if err := q.Find(&games).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// NopArchive is used when no database is configured.
type NopArchive struct{}

func (NopArchive) OpenGame(context.Context, string) (uint, error) { return 0, nil }

func (NopArchive) RecordCall(context.Context, uint, int, game.Ball) error { return nil }

func (NopArchive) CloseGame(context.Context, uint, string, []int) error { return nil }

func (NopArchive) ListGames(context.Context, string, int) ([]models.Game, error) {
	return nil, ErrArchiveDisabled
}
