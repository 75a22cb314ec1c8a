package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/gin-gonic/gin"
)

// LobbyController exposes lobby operations over HTTP.
type LobbyController struct {
	svc *services.LobbyService
}

func NewLobbyController(svc *services.LobbyService) *LobbyController {
	return &LobbyController{svc: svc}
}

// ListLobbies returns every lobby with its status
func (lc *LobbyController) ListLobbies(c *gin.Context) {
	c.JSON(http.StatusOK, lc.svc.List())
}

// CreateLobby creates a lobby; the id is optional
func (lc *LobbyController) CreateLobby(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lobby, err := lc.svc.Create(strings.TrimSpace(req.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": lobby.ID, "state": lobby.Snapshot()})
}

// GetLobby returns the current snapshot
func (lc *LobbyController) GetLobby(c *gin.Context) {
	lobby, ok := lc.lobby(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": lobby.ID, "state": lobby.Snapshot()})
}

// DeleteLobby closes a lobby and disconnects its clients
func (lc *LobbyController) DeleteLobby(c *gin.Context) {
	if err := lc.svc.Remove(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Board returns the 75-number master board
func (lc *LobbyController) Board(c *gin.Context) {
	lobby, ok := lc.lobby(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": lobby.ID, "board": lobby.Board()})
}

// History returns the recent calls, most recent first
func (lc *LobbyController) History(c *gin.Context) {
	lobby, ok := lc.lobby(c)
	if !ok {
		return
	}
	history := lobby.Snapshot().History
	parts := make([]string, len(history))
	for i, b := range history {
		parts[i] = b.String()
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      lobby.ID,
		"history": history,
		"text":    strings.Join(parts, ", "),
	})
}

// Start begins a new game
func (lc *LobbyController) Start(c *gin.Context) {
	lc.apply(c, (*services.Lobby).Start)
}

// Draw calls the next number
func (lc *LobbyController) Draw(c *gin.Context) {
	lc.apply(c, (*services.Lobby).Draw)
}

// End starts the closing celebration
func (lc *LobbyController) End(c *gin.Context) {
	lc.apply(c, (*services.Lobby).RequestEnd)
}

// Reset clears the board; the body must carry {"confirm": true}
func (lc *LobbyController) Reset(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lc.apply(c, func(l *services.Lobby) game.Change {
		return l.Reset(req.Confirm)
	})
}

// apply runs op and always answers 200 with the change, ignored or not,
// so repeated clicks are harmless.
func (lc *LobbyController) apply(c *gin.Context, op func(*services.Lobby) game.Change) {
	lobby, ok := lc.lobby(c)
	if !ok {
		return
	}
	ch := op(lobby)
	if ch.Signal == game.SignalIgnored {
		logger.Debugf("[Lobby %s] %s %s ignored: %s", lobby.ID, c.Request.Method, c.FullPath(), ch.Reason)
	}
	c.JSON(http.StatusOK, ch)
}

func (lc *LobbyController) lobby(c *gin.Context) (*services.Lobby, bool) {
	lobby, err := lc.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return lobby, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLobbyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLobbyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidLobbyID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Errorf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
