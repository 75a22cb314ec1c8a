package controllers

import (
	"net/http"
	"strconv"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/gin-gonic/gin"
)

const (
	defaultGamesLimit = 20
	maxGamesLimit     = 100
)

// GameController serves the game archive and number lookups.
type GameController struct {
	archive services.Archive
}

func NewGameController(archive services.Archive) *GameController {
	return &GameController{archive: archive}
}

// ListGames returns archived games, newest first
func (gc *GameController) ListGames(c *gin.Context) {
	limit := defaultGamesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxGamesLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
			return
		}
		limit = n
	}

	games, err := gc.archive.ListGames(c.Request.Context(), c.Query("lobby"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// Letter returns the BINGO column for a number
func (gc *GameController) Letter(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || !game.ValidNumber(n) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number must be an integer between 1 and 75"})
		return
	}
	c.JSON(http.StatusOK, game.NewBall(n))
}
